// Package notifier announces newly synced offerings.
package notifier

import (
	"github.com/jiundev/gongmo-calendar/internal/ipo"
)

// Notifier posts announcements for newly created offerings.
type Notifier interface {
	Notify(offerings []*ipo.Offering) error
}
