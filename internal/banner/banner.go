package banner

import (
	"github.com/charmbracelet/lipgloss"
)

func GetString() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true)

	ascii := `
 _        _       _ _                     _
| |_ _ __(_) __ _| | |__   ___ _ __   ___| |__
| __| '__| |/ _' | | '_ \ / _ \ '_ \ / __| '_ \
| |_| |  | | (_| | | |_) |  __/ | | | (__| | | |
 \__|_|  |_|\__,_|_|_.__/ \___|_| |_|\___|_| |_|`

	return "\n" + style.Render(ascii) + "\n"
}
