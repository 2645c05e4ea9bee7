package llmclient

import "strings"

// Category groups a command into one of the prompt templates the smart
// path uses to steer condensation.
type Category string

const (
	CategoryVersionControl Category = "version_control"
	CategoryFileOperations Category = "file_operations"
	CategoryBuildTest      Category = "build_test"
	CategoryContainerTools Category = "container_tools"
	CategoryLogs           Category = "logs"
	CategoryGeneric        Category = "generic"
)

// maxPromptChars bounds how much captured output is embedded in the user
// prompt — beyond this, the model sees a head/tail sample instead of the
// full text, keeping the request itself bounded.
const maxPromptChars = 16000

var (
	logTools = []string{"tail", "journalctl", "dmesg"}
)

// Classify assigns a Category to a command, driven by its leading word(s)
// in coreWords (already lowercased, whitespace-split). Log-tailing tools
// are routed to Logs even though they're technically file operations —
// their output shape (timestamped, high-volume, signal buried in noise)
// needs the logs prompt's instructions, not the file one's.
func Classify(coreWords []string) Category {
	if len(coreWords) == 0 {
		return CategoryGeneric
	}
	head := coreWords[0]

	for _, t := range logTools {
		if head == t {
			return CategoryLogs
		}
	}
	switch head {
	case "git":
		return CategoryVersionControl
	case "ls", "find", "cat", "head", "wc", "tree", "mv", "cp", "rm", "mkdir":
		return CategoryFileOperations
	case "go", "npm", "yarn", "pnpm", "cargo", "make", "pytest", "mvn", "gradle",
		"golangci-lint", "eslint", "flake8", "ruff", "staticcheck":
		return CategoryBuildTest
	case "docker", "podman", "kubectl", "docker-compose":
		return CategoryContainerTools
	default:
		return CategoryGeneric
	}
}

var systemPrompts = map[Category]string{
	CategoryVersionControl: "You condense git command output for an AI coding assistant. " +
		"Preserve branch names, file paths, commit hashes, and error messages verbatim. " +
		"Drop decorative formatting. Never invent information not present in the input.",
	CategoryFileOperations: "You condense file and directory listing output for an AI coding assistant. " +
		"Preserve file paths, sizes, and counts verbatim. Summarize repetitive entries instead of listing each one. " +
		"Never invent information not present in the input.",
	CategoryBuildTest: "You condense build, test, and lint output for an AI coding assistant. " +
		"Preserve failure messages, file:line locations, and the final pass/fail summary verbatim. " +
		"Drop passing-test noise. Never invent information not present in the input.",
	CategoryContainerTools: "You condense container tooling output for an AI coding assistant. " +
		"Preserve container/image names, IDs, and status verbatim. Drop decorative table formatting. " +
		"Never invent information not present in the input.",
	CategoryLogs: "You condense log output for an AI coding assistant. " +
		"Preserve timestamps, error and warning lines, and stack traces verbatim. Drop repetitive informational noise. " +
		"Never invent information not present in the input.",
	CategoryGeneric: "You condense shell command output for an AI coding assistant. " +
		"Preserve facts, paths, and error messages verbatim. Remove decorative formatting and repetition. " +
		"Never invent information not present in the input.",
}

// SystemPrompt returns the fixed system prompt for a category.
func SystemPrompt(cat Category) string {
	return systemPrompts[cat]
}

// UserPrompt builds the user message: the command that was run plus the
// captured output, truncated to maxPromptChars with a head/tail sample
// when it would otherwise blow out the request.
func UserPrompt(command, output string) string {
	sample := output
	if len(sample) > maxPromptChars {
		head := sample[:maxPromptChars*3/4]
		tail := sample[len(sample)-maxPromptChars/4:]
		sample = head + "\n...[truncated for prompt]...\n" + tail
	}
	var b strings.Builder
	b.WriteString("Command: ")
	b.WriteString(command)
	b.WriteString("\n\nOutput:\n")
	b.WriteString(sample)
	return b.String()
}
