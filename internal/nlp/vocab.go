package nlp

// orgKeywords mark a capitalized run as an organization.
var orgKeywords = setOf(
	"university", "universität", "universitat", "université", "universite",
	"universidad", "università", "universiteit", "universidade", "uniwersytet",
	"institute", "institut", "instituto", "istituto", "college", "school",
	"academy", "polytechnic", "politecnico", "polytechnique", "conservatory",
	"seminary", "laboratory", "laboratories", "center", "centre",
	"foundation", "hospital", "clinic", "corporation", "company", "inc",
	"ltd", "llc", "gmbh", "department", "faculty", "council", "agency",
	"ministry", "society", "association", "eth", "epfl",
)

// titleWords are honorifics, degrees and rank words that frame a name.
var titleWords = setOf(
	"prof", "professor", "professors", "dr", "doctor", "mr", "mrs", "ms",
	"miss", "mx", "sir", "dame", "phd", "dphil", "ph", "d", "msc", "bsc",
	"meng", "beng", "mba", "bs", "jd", "llm", "mphil",
	"frs", "fieee", "ieee", "assistant", "associate", "asst", "assoc",
	"emeritus", "emerita", "adjunct", "visiting", "lecturer", "senior",
	"principal", "reader", "chair", "dean", "director", "head", "fellow",
	"research", "teaching", "distinguished", "honorary", "clinical", "jr",
	"sr", "ii", "iii", "iv",
)

// connectors may join the capitalized words of one name.
var connectors = setOf(
	"of", "and", "for", "the", "de", "des", "du", "la", "le", "di", "da",
	"van", "von", "der", "den", "del", "y", "&", "at", "in",
)

// commonWords are capitalized words that are never part of a person name
// on a university site.
var commonWords = setOf(
	"home", "about", "contact", "us", "our", "we", "you", "your", "people",
	"staff", "faculty", "research", "news", "events", "event", "teaching",
	"publications", "publication", "interests", "interest", "biography",
	"bio", "overview", "profile", "profiles", "directory", "academic",
	"academics", "student", "students", "program", "programs", "programme",
	"programmes", "department", "departments", "school", "schools",
	"graduate", "undergraduate", "postgraduate", "admissions", "apply",
	"login", "logout", "search", "menu", "more", "read", "view", "all",
	"back", "next", "previous", "page", "site", "map", "quick", "links",
	"link", "office", "hours", "email", "phone", "fax", "address", "room",
	"building", "campus", "library", "science", "sciences", "engineering",
	"computer", "computing", "mathematics", "physics", "chemistry",
	"biology", "economics", "history", "art", "arts", "business", "law",
	"medicine", "health", "education", "information", "technology",
	"international", "calendar", "jobs", "careers", "give", "giving",
	"alumni", "welcome", "curriculum", "vitae", "cv", "resume",
	"selected", "recent", "current", "courses", "course", "group", "team",
	"members", "member", "leadership", "administration", "administrative",
	"support", "professional", "services", "executive", "board",
	"committee", "emeriti", "affiliated", "affiliate", "postdoctoral",
	"postdocs", "visitors", "contacts", "find", "expert", "experts",
	"expertise", "areas", "area", "study", "studies", "major", "minor",
	"majors", "minors", "degree", "degrees", "new", "upcoming", "seminar",
	"seminars", "colloquium", "award", "awards", "honors", "honours",
	"january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december", "monday",
	"tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"copyright", "privacy", "policy", "accessibility", "terms", "skip",
	"main", "content", "navigation", "toggle", "open", "close", "share",
	"facebook", "twitter", "linkedin", "instagram", "youtube", "download",
	"the", "a", "an", "this", "that", "and", "or", "with", "by", "to",
)

func setOf(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
