package domain

// PositionOptions are the positions applicants may apply for and team
// leads may request manpower against.
var PositionOptions = []string{
	"Telecollector",
	"Bank Admin",
	"Team Leader",
	"Repossessor",
	"Field Collector",
	"Messenger",
	"Maintenance",
	"Company Driver",
	"Security Personnel",
	"Human Resource",
	"Accounting",
	"Analytics",
	"IT Department",
}

// IsKnownPosition reports whether p is one of the selectable positions.
func IsKnownPosition(p string) bool {
	for _, option := range PositionOptions {
		if option == p {
			return true
		}
	}
	return false
}
