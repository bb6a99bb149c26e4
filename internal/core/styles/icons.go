package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconUser     = " "
	IconLogout   = "󰍃 "
	IconDocument = " "
	IconCheck    = ""
)

// Severity and notification icons.
var (
	IconError   = ""
	IconWarning = ""
	IconInfo    = ""

	IconNotifyError   = IconError
	IconNotifyWarning = IconWarning
	IconNotifyInfo    = IconInfo
)
