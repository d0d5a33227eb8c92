package service

// Table topics carried by change events. Values match the persisted
// table names so the repository can publish without translation.
const (
	TopicUsers          = "users"
	TopicBooks          = "books"
	TopicAudioBooks     = "audiobooks"
	TopicCourses        = "courses"
	TopicGearItems      = "gear_items"
	TopicPurchases      = "purchases"
	TopicInvoices       = "invoices"
	TopicReviews        = "reviews"
	TopicReactions      = "review_reactions"
	TopicWishlist       = "wishlist_items"
	TopicHistory        = "history_items"
	TopicSearch         = "search_entries"
	TopicNotifications  = "notifications"
	TopicEnrollments    = "enrollment_applications"
	TopicInstallments   = "installment_plans"
	TopicWalletLedger   = "wallet_transactions"
	TopicSystemLogs     = "system_logs"
)

// Event signals that rows in one or more tables changed
type Event struct {
	Tables []string `json:"tables"`
}

// Touches reports whether the event affects any of the given tables
func (e Event) Touches(tables ...string) bool {
	for _, changed := range e.Tables {
		for _, want := range tables {
			if changed == want {
				return true
			}
		}
	}
	return false
}

// EventBus allows publishing and subscribing to change events
type EventBus struct {
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events. Subscriptions are set
// up during wiring, before any writes happen.
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}

// TableChanged publishes a change event for the given tables. It
// satisfies the repository's notifier contract.
func (eb *EventBus) TableChanged(tables ...string) {
	if len(tables) == 0 {
		return
	}
	eb.Publish(Event{Tables: tables})
}
