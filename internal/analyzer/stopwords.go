package analyzer

// Capitalized words that start sentences or name generic things rather than
// entities. A stop-listed token splits a capitalized run in two.
var entityStopwords = wordSet(
	"The", "This", "That", "These", "Those", "There", "Then",
	"And", "But", "For", "Not", "With", "From", "Into", "Over",
	"When", "Where", "While", "Which", "What", "Who", "Whose", "Why", "How",
	"All", "Any", "Each", "Every", "Some", "Most", "Other", "Such",
	"Our", "Your", "Their", "His", "Her", "Its",
	"Was", "Were", "Are", "Has", "Have", "Had", "Will", "Would",
	"Can", "Could", "May", "Might", "Shall", "Should", "Must",
	"Also", "However", "Therefore", "Please", "Thanks", "Regards",
	"Dear", "Subject", "Note", "Item", "Page", "Table", "Figure",
	"Section", "Chapter", "Appendix", "Summary", "Introduction",
	"Overview", "Conclusion", "Project", "System", "Report", "Document",
	"Company", "Team", "Meeting", "Update", "Status", "Draft",
	"January", "February", "March", "April", "June", "July",
	"August", "September", "October", "November", "December",
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday",
	"Saturday", "Sunday",
)

// Lower-case generic terms that would otherwise dominate topic rankings.
var topicStopwords = wordSet(
	"about", "above", "after", "again", "against", "because", "been",
	"before", "being", "below", "between", "could", "doing", "during",
	"further", "having", "might", "other", "shall", "should", "since",
	"still", "their", "there", "these", "they", "those", "through",
	"under", "until", "where", "which", "while", "would", "your",
	"business", "company", "document", "general", "information",
	"management", "meeting", "number", "please", "process", "project",
	"regards", "report", "review", "section", "status", "summary",
	"system", "table", "thanks", "things", "update", "value", "various",
	"within", "without",
)

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
