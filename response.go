package dino

// Res is the response object a user-script handler must resolve its
// returned promise to (spec.md §3).
type Res struct {
	Status  uint16
	Headers map[string]string
	Body    *string
}
