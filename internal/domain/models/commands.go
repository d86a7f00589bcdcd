package models

import "strings"

// CommandType enumerates supported messaging commands.
type CommandType string

const (
	CommandIncome  CommandType = "income"
	CommandExpense CommandType = "expense"
	CommandSummary CommandType = "summary"
	CommandMonth   CommandType = "month"
	CommandReport  CommandType = "report"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
// The head token is matched case-insensitively; argument case is kept so
// descriptions read back the way they were typed.
func ParseCommand(message string) Command {
	tokens := strings.Fields(strings.TrimSpace(message))
	cmd := Command{Raw: message}

	if len(tokens) == 0 {
		cmd.Type = CommandUnknown
		return cmd
	}

	head := strings.TrimPrefix(strings.ToLower(tokens[0]), "/")
	switch head {
	case string(CommandIncome), "sale", "sales":
		cmd.Type = CommandIncome
	case string(CommandExpense), "expenses":
		cmd.Type = CommandExpense
	case string(CommandSummary):
		cmd.Type = CommandSummary
	case string(CommandMonth):
		cmd.Type = CommandMonth
	case string(CommandReport):
		cmd.Type = CommandReport
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
