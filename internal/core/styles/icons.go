package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconNotifyInfo    = "" // nf-fa-info_circle
	IconNotifySuccess = "" // nf-fa-check
	IconNotifyWarning = "" // nf-fa-warning
	IconNotifyError   = "" // nf-fa-times_circle
	IconPinned        = "" // nf-fa-thumb_tack
)

// ASCII fallbacks for terminals without a nerd font.
var (
	PlainNotifyInfo    = "i"
	PlainNotifySuccess = "+"
	PlainNotifyWarning = "!"
	PlainNotifyError   = "x"
	PlainPinned        = "*"
)
