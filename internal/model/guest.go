package model

// GuestData is the full guest identity record, typically captured from a Thai
// national ID card at check-in or carried over from an OTA import.
type GuestData struct {
	IDNumber    string
	Title       string
	FirstNameTH string
	LastNameTH  string
	FirstNameEN string
	LastNameEN  string
	Address     string
	DOB         string
	IssueDate   string
	ExpiryDate  string
	Religion    string
	Phone       string
}

// FullNameTH returns the guest's Thai display name.
func (g *GuestData) FullNameTH() string {
	if g.LastNameTH == "" {
		return g.FirstNameTH
	}
	return g.FirstNameTH + " " + g.LastNameTH
}
