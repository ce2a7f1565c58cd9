package logging

type Mode uint8

const (
	ModeCLI Mode = iota + 1
	ModeTUI
	ModeMCP
)

func (m Mode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeMCP:
		return "mcp"
	default:
		return "cli"
	}
}
