package category

// Category is a fixed competition age bracket.
type Category struct {
	ID   int64
	Name string
}

const (
	Benjamin    = "BENJAMIN"
	Prebenjamin = "PREBENJAMIN"
)

// Names lists the known categories in display order.
func Names() []string {
	return []string{Benjamin, Prebenjamin}
}
