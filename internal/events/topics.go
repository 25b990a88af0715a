// Package events provides a lightweight in-process pub/sub broker. The demo
// command publishes dispatcher order events on it and collects closed trades
// for the statistics aggregator from them; the trade-closed and notification
// topics are defined but nothing in this module publishes them.
package events

// Topic enumerates the event kinds published on a Bus.
type Topic string

const (
	TopicOrderFilled    Topic = "order.filled"
	TopicOrderNone      Topic = "order.none"
	TopicOrderInvalid   Topic = "order.invalid"
	TopicOrderCanceled  Topic = "order.canceled"
	TopicTradeClosed    Topic = "trade.closed"
	TopicNotification   Topic = "notification.submitted"
	TopicNotificationNG Topic = "notification.rejected"
)
