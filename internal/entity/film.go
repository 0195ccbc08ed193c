package entity

// Film is one catalog entry. It is created once by the harvest and never
// modified; the persisted catalog order is the resume order.
type Film struct {
	ID    int
	Title string
	Year  int
	Image string
	Pages int
}
