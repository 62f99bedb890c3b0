// file: internal/resolver/nicknames.go
// version: 1.2.0
// guid: 5b9c0d1e-2f3a-4b5c-8d7e-6f5a4b3c2d1e

package resolver

import "strings"

// nicknameToFormal maps common informal given-name nicknames to the formal
// name they usually expand to. Hand-curated; several nicknames are genuinely
// ambiguous ("harry" is short for both Henry and Harold, "sandy" for both
// Sandra and Alexander) and keep exactly one mapping here. Cleaning those up
// is a dictionary-content task, not a matching bug.
var nicknameToFormal = map[string]string{
	"abby":    "abigail",
	"al":      "albert",
	"alex":    "alexander",
	"andy":    "andrew",
	"angie":   "angela",
	"annie":   "anne",
	"art":     "arthur",
	"barb":    "barbara",
	"becky":   "rebecca",
	"ben":     "benjamin",
	"bernie":  "bernard",
	"beth":    "elizabeth",
	"betsy":   "elizabeth",
	"betty":   "elizabeth",
	"bill":    "william",
	"billy":   "william",
	"bob":     "robert",
	"bobby":   "robert",
	"brad":    "bradley",
	"cathy":   "catherine",
	"charlie": "charles",
	"chris":   "christopher",
	"chuck":   "charles",
	"cindy":   "cynthia",
	"dan":     "daniel",
	"danny":   "daniel",
	"dave":    "david",
	"deb":     "deborah",
	"debbie":  "deborah",
	"dick":    "richard",
	"don":     "donald",
	"donny":   "donald",
	"dot":     "dorothy",
	"ed":      "edward",
	"eddie":   "edward",
	"ellie":   "eleanor",
	"fran":    "frances",
	"frank":   "francis",
	"fred":    "frederick",
	"gabby":   "gabrielle",
	"gene":    "eugene",
	"greg":    "gregory",
	"hank":    "henry",
	"harry":   "henry",
	"jack":    "john",
	"jackie":  "jacqueline",
	"jake":    "jacob",
	"jen":     "jennifer",
	"jenny":   "jennifer",
	"jerry":   "gerald",
	"jim":     "james",
	"jimmy":   "james",
	"joe":     "joseph",
	"joey":    "joseph",
	"johnny":  "john",
	"jon":     "jonathan",
	"josh":    "joshua",
	"kate":    "katherine",
	"kathy":   "katherine",
	"katie":   "katherine",
	"ken":     "kenneth",
	"kim":     "kimberly",
	"larry":   "lawrence",
	"len":     "leonard",
	"liz":     "elizabeth",
	"lou":     "louis",
	"maggie":  "margaret",
	"mandy":   "amanda",
	"matt":    "matthew",
	"meg":     "margaret",
	"mel":     "melissa",
	"mike":    "michael",
	"mickey":  "michael",
	"nate":    "nathan",
	"ned":     "edward",
	"nick":    "nicholas",
	"pam":     "pamela",
	"pat":     "patricia",
	"patty":   "patricia",
	"peggy":   "margaret",
	"pete":    "peter",
	"phil":    "philip",
	"rick":    "richard",
	"ricky":   "richard",
	"rob":     "robert",
	"ron":     "ronald",
	"ronnie":  "ronald",
	"rusty":   "russell",
	"sam":     "samuel",
	"sammy":   "samuel",
	"sandy":   "sandra",
	"steve":   "steven",
	"sue":     "susan",
	"susie":   "susan",
	"ted":     "theodore",
	"terry":   "terrence",
	"tim":     "timothy",
	"tina":    "christina",
	"toby":    "tobias",
	"tom":     "thomas",
	"tommy":   "thomas",
	"tony":    "anthony",
	"trish":   "patricia",
	"vicky":   "victoria",
	"vince":   "vincent",
	"walt":    "walter",
	"will":    "william",
	"zach":    "zachary",
}

// relationshipSynonyms maps a normalized relationship category to the casual
// kinship words people actually type or text.
var relationshipSynonyms = map[string][]string{
	"mother":      {"mom", "mommy", "momma", "mama", "ma", "mother", "mum", "mummy"},
	"father":      {"dad", "daddy", "papa", "pa", "pops", "father", "pop"},
	"sister":      {"sis", "sister", "big sis", "little sis", "lil sis"},
	"brother":     {"bro", "brother", "big bro", "little bro", "lil bro"},
	"grandmother": {"grandma", "granny", "nana", "gran", "grandmother", "gma", "mimi", "mawmaw"},
	"grandfather": {"grandpa", "gramps", "granddad", "grandfather", "gpa", "pawpaw", "papaw"},
	"aunt":        {"aunt", "auntie", "aunty"},
	"uncle":       {"uncle", "unc"},
	"wife":        {"wife", "wifey"},
	"husband":     {"husband", "hubby"},
	"daughter":    {"daughter"},
	"son":         {"son"},
	"cousin":      {"cousin", "cuz"},
	"friend":      {"friend", "bestie", "bff", "best friend", "buddy", "pal"},
	"coworker":    {"coworker", "colleague", "workmate"},
	"boyfriend":   {"boyfriend", "bf"},
	"girlfriend":  {"girlfriend", "gf"},
	"partner":     {"partner", "fiance", "fiancee"},
}

// FormalName returns the formal given name for a known nickname, or the
// input unchanged when the nickname is not in the dictionary.
func FormalName(nickname string) string {
	key := strings.ToLower(strings.TrimSpace(nickname))
	if formal, ok := nicknameToFormal[key]; ok {
		return formal
	}
	return nickname
}

// IsKnownNickname reports whether s is in the nickname dictionary.
func IsKnownNickname(s string) bool {
	_, ok := nicknameToFormal[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// NormalizeRelationship maps a casual kinship word to its normalized
// category. The second return value is false when the term matches no
// category.
func NormalizeRelationship(term string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return "", false
	}
	for category, synonyms := range relationshipSynonyms {
		for _, syn := range synonyms {
			if t == syn {
				return category, true
			}
		}
	}
	return "", false
}

// IsRelationshipTerm reports whether term maps to a relationship category.
func IsRelationshipTerm(term string) bool {
	_, ok := NormalizeRelationship(term)
	return ok
}
