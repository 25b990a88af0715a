package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/go-resty/resty/v2"
)

// RestyTransport is the production Transport. Web and SMS submissions both
// go over an injected resty client since both are webhook-shaped boundary
// calls; Telegram submissions use go-telegram-bot-api; email uses net/smtp
// (see DESIGN.md for why this leg is stdlib); FTP is left to the caller's
// FTPUpload.
type RestyTransport struct {
	HTTP       *resty.Client
	SMTPAddr   string
	SMTPAuth   smtp.Auth
	SMSGateway string // base URL an SMSRequest is POSTed to
	FTPUpload  func(ctx context.Context, req FTPRequest) error
}

// NewRestyTransport builds a transport with a resty client preconfigured
// with a timeout and a retry-on-5xx policy.
func NewRestyTransport(smtpAddr string, smtpAuth smtp.Auth, smsGateway string) *RestyTransport {
	http := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		})
	return &RestyTransport{HTTP: http, SMTPAddr: smtpAddr, SMTPAuth: smtpAuth, SMSGateway: smsGateway}
}

func (t *RestyTransport) SendEmail(ctx context.Context, req EmailRequest) error {
	body := fmt.Sprintf("Subject: %s\r\n\r\n%s", req.Subject, req.Message)
	return smtp.SendMail(t.SMTPAddr, t.SMTPAuth, "backtestcore@localhost", []string{req.Address}, []byte(body))
}

func (t *RestyTransport) SendSMS(ctx context.Context, req SMSRequest) error {
	if t.SMSGateway == "" {
		return fmt.Errorf("notify: no SMS gateway configured")
	}
	_, err := t.HTTP.R().SetContext(ctx).
		SetBody(map[string]string{"to": req.Phone, "message": req.Message}).
		Post(t.SMSGateway)
	return err
}

func (t *RestyTransport) SendWeb(ctx context.Context, req WebRequest) error {
	r := t.HTTP.R().SetContext(ctx).SetBody(req.Data)
	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}
	_, err := r.Post(req.Address)
	return err
}

func (t *RestyTransport) SendTelegram(ctx context.Context, req TelegramRequest) error {
	bot, err := tgbotapi.NewBotAPI(req.BotToken)
	if err != nil {
		return fmt.Errorf("notify: telegram bot init: %w", err)
	}
	_, err = bot.Send(tgbotapi.NewMessage(req.ChatID, req.Message))
	return err
}

func (t *RestyTransport) SendFTP(ctx context.Context, req FTPRequest) error {
	if t.FTPUpload == nil {
		return fmt.Errorf("notify: no FTP uploader configured")
	}
	return t.FTPUpload(ctx, req)
}
