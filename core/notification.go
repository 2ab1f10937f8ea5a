package core

import (
	"github.com/pureorigins/partyd/service/notify"
)

// NotificationListFunc drains the queued notifications of the origin user.
type NotificationListFunc func(originID uint64) (notify.List, error)

// NotificationList returns the drain of the notification sink. Draining is
// destructive, a second call returns only what arrived in between.
func NotificationList(notifier notify.Service) NotificationListFunc {
	return func(originID uint64) (notify.List, error) {
		return notifier.Drain(originID)
	}
}
