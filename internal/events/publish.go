package events

import "backtestcore/internal/order"

// PublishOrderEvent routes an order.Event to the topic matching its status.
func PublishOrderEvent(bus *Bus, ev order.Event) {
	if bus == nil {
		return
	}
	switch ev.Status {
	case order.StatusFilled:
		bus.Publish(TopicOrderFilled, ev)
	case order.StatusInvalid:
		bus.Publish(TopicOrderInvalid, ev)
	case order.StatusCanceled:
		bus.Publish(TopicOrderCanceled, ev)
	default:
		bus.Publish(TopicOrderNone, ev)
	}
}
