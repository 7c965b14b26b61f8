package constants

// Faculties is the fixed set of faculty rooms known at startup.
var Faculties = []string{
	"Mexanika-riyaziyyat fakültəsi",
	"Tətbiqi riyaziyyat və kibernetika fakültəsi",
	"Fizika fakültəsi",
	"Kimya fakültəsi",
	"Biologiya fakültəsi",
	"Ekologiya və torpaqşünaslıq fakültəsi",
	"Coğrafiya fakültəsi",
	"Geologiya fakültəsi",
	"Filologiya fakültəsi",
	"Tarix fakültəsi",
	"Beynəlxalq münasibətlər və iqtisadiyyat fakültəsi",
	"Hüquq fakültəsi",
	"Jurnalistika fakültəsi",
	"İnformasiya və sənəd menecmenti fakültəsi",
	"Şərqşünaslıq fakültəsi",
	"Sosial elmlər və psixologiya fakültəsi",
}

// IsFaculty reports whether name is one of Faculties.
func IsFaculty(name string) bool {
	for _, f := range Faculties {
		if f == name {
			return true
		}
	}
	return false
}

// VerificationQuestion is one registration check question.
type VerificationQuestion struct {
	Question string   `json:"question"`
	Answer   string   `json:"-"`
	Options  []string `json:"options"`
}

var buildingOptions = []string{"1", "2", "3", "əsas"}

// VerificationQuestions asks which building each faculty is located in.
var VerificationQuestions = []VerificationQuestion{
	{Question: "Mexanika-riyaziyyat fakültəsi hansı korpusda yerləşir?", Answer: "3", Options: buildingOptions},
	{Question: "Tətbiqi riyaziyyat və kibernetika fakültəsi hansı korpusda yerləşir?", Answer: "3", Options: buildingOptions},
	{Question: "Fizika fakültəsi hansı korpusda yerləşir?", Answer: "əsas", Options: buildingOptions},
	{Question: "Kimya fakültəsi hansı korpusda yerləşir?", Answer: "əsas", Options: buildingOptions},
	{Question: "Biologiya fakültəsi hansı korpusda yerləşir?", Answer: "əsas", Options: buildingOptions},
	{Question: "Ekologiya və torpaqşünaslıq fakültəsi hansı korpusda yerləşir?", Answer: "əsas", Options: buildingOptions},
	{Question: "Coğrafiya fakültəsi hansı korpusda yerləşir?", Answer: "əsas", Options: buildingOptions},
	{Question: "Geologiya fakültəsi hansı korpusda yerləşir?", Answer: "əsas", Options: buildingOptions},
	{Question: "Filologiya fakültəsi hansı korpusda yerləşir?", Answer: "1", Options: buildingOptions},
	{Question: "Tarix fakültəsi hansı korpusda yerləşir?", Answer: "3", Options: buildingOptions},
	{Question: "Beynəlxalq münasibətlər və iqtisadiyyat fakültəsi hansı korpusda yerləşir?", Answer: "1", Options: buildingOptions},
	{Question: "Hüquq fakültəsi hansı korpusda yerləşir?", Answer: "1", Options: buildingOptions},
	{Question: "Jurnalistika fakültəsi hansı korpusda yerləşir?", Answer: "2", Options: buildingOptions},
	{Question: "İnformasiya və sənəd menecmenti fakültəsi hansı korpusda yerləşir?", Answer: "2", Options: buildingOptions},
	{Question: "Şərqşünaslıq fakültəsi hansı korpusda yerləşir?", Answer: "2", Options: buildingOptions},
	{Question: "Sosial elmlər və psixologiya fakültəsi hansı korpusda yerləşir?", Answer: "2", Options: buildingOptions},
}
