package notifier

import (
	"fmt"

	"github.com/jiundev/gongmo-calendar/internal/ipo"
)

// DryRunNotifier prints what would be posted without posting.
type DryRunNotifier struct{}

// NewDryRunNotifier creates a new dry-run notifier.
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// Notify prints the announcements that would be posted.
func (n *DryRunNotifier) Notify(offerings []*ipo.Offering) error {
	for i, o := range offerings {
		post := formatAnnouncement(o)
		fmt.Printf("--- 공지 %d/%d ---\n", i+1, len(offerings))
		fmt.Println(post)
		fmt.Printf("\n(길이: %d자)\n\n", len([]rune(post)))
	}
	return nil
}
