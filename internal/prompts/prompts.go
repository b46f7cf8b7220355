package prompts

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed tattletale_system.md
var tattletaleSystemPrompt string

//go:embed tattletale_history.md
var tattletaleHistoryPromptTemplate string

// TattletaleSystemPrompt is the instruction given to the model for every
// summary: one sentence, non-technical, without naming the author.
func TattletaleSystemPrompt() string {
	return strings.TrimSpace(tattletaleSystemPrompt)
}

func BuildTattletaleHistoryPrompt(author, day, project, gitLog string) string {
	return fmt.Sprintf(strings.TrimSpace(tattletaleHistoryPromptTemplate), author, day, project, strings.TrimRight(gitLog, "\n"))
}
