package lexical

// PatternSpec is the raw, uncompiled form of one table entry. It is also
// the schema operators use when overriding the table from YAML.
type PatternSpec struct {
	Pattern  string  `yaml:"pattern"`
	Class    string  `yaml:"class"` // direct | indirect | distress
	Category string  `yaml:"category"`
	Weight   float64 `yaml:"weight,omitempty"`
}

// builtinPatterns is the curated phrase database. Direct statements carry
// critical severity, indirect statements high, distress phrases moderate.
func builtinPatterns() map[string][]PatternSpec {
	return map[string][]PatternSpec{
		"en": {
			{Pattern: `\b(kill\s+myself|end\s+my\s+life|commit\s+suicide|take\s+my\s+life)\b`, Class: ClassDirect, Category: "suicidal_ideation"},
			{Pattern: `\b(want\s+to\s+die|ready\s+to\s+die|better\s+off\s+dead)\b`, Class: ClassDirect, Category: "suicidal_ideation"},
			{Pattern: `\b(going\s+to\s+kill\s+myself|about\s+to\s+end\s+it|planning\s+to\s+die)\b`, Class: ClassDirect, Category: "planning"},
			{Pattern: `\b(overdose|hang\s+myself|jump\s+off|cut\s+my\s+wrists)\b`, Class: ClassDirect, Category: "means"},
			{Pattern: `\b(gun\s+to\s+my\s+head|pills\s+to\s+end|poison\s+myself)\b`, Class: ClassDirect, Category: "means"},
			{Pattern: `\b(suicidal|want\s+to\s+hurt\s+myself|self[\s-]?harm)\b`, Class: ClassIndirect, Category: "self_harm"},
			{Pattern: `\b(no\s+reason\s+to\s+live|life\s+isn't\s+worth|can't\s+go\s+on)\b`, Class: ClassIndirect, Category: "hopelessness"},
			{Pattern: `\b(end\s+it\s+all|end\s+the\s+pain|make\s+it\s+stop)\b`, Class: ClassIndirect, Category: "indirect_suicidal"},
			{Pattern: `\b(goodbye\s+forever|this\s+is\s+goodbye|final\s+goodbye)\b`, Class: ClassIndirect, Category: "farewell"},
			{Pattern: `\b(won't\s+be\s+around|see\s+you\s+on\s+the\s+other\s+side)\b`, Class: ClassIndirect, Category: "farewell"},
			{Pattern: `\b(can't\s+take\s+it|can't\s+cope|breaking\s+point)\b`, Class: ClassDistress, Category: "hopelessness", Weight: 0.8},
			{Pattern: `\b(wish\s+i\s+was\s+dead|rather\s+be\s+dead)\b`, Class: ClassDistress, Category: "death_ideation", Weight: 0.8},
			{Pattern: `\b(no\s+way\s+out|trapped|no\s+escape|hopeless)\b`, Class: ClassDistress, Category: "hopelessness", Weight: 0.7},
			{Pattern: `\b(end\s+of\s+the\s+road|final\s+curtain|last\s+stop)\b`, Class: ClassDistress, Category: "indirect_suicidal", Weight: 0.6},
			{Pattern: `\b(disappear\s+forever|cease\s+to\s+exist|fade\s+away)\b`, Class: ClassDistress, Category: "indirect_suicidal", Weight: 0.6},
		},
		"es": {
			{Pattern: `\b(quiero\s+morir|matarme|suicidarme|quitarme\s+la\s+vida)\b`, Class: ClassDirect, Category: "suicidal_ideation"},
			{Pattern: `\b(no\s+puedo\s+más|no\s+quiero\s+vivir|mejor\s+muerto)\b`, Class: ClassIndirect, Category: "hopelessness"},
			{Pattern: `\b(acabar\s+con\s+todo|terminar\s+con\s+esto)\b`, Class: ClassIndirect, Category: "indirect_suicidal"},
			{Pattern: `\b(sin\s+esperanza|desesperado|no\s+hay\s+salida)\b`, Class: ClassDistress, Category: "hopelessness", Weight: 0.7},
		},
		"fr": {
			{Pattern: `\b(je\s+veux\s+mourir|me\s+suicider|me\s+tuer|en\s+finir)\b`, Class: ClassDirect, Category: "suicidal_ideation"},
			{Pattern: `\b(plus\s+de\s+raison\s+de\s+vivre|mieux\s+vaut\s+mourir)\b`, Class: ClassIndirect, Category: "hopelessness"},
			{Pattern: `\b(désespéré|sans\s+espoir|ne\s+peux\s+plus)\b`, Class: ClassDistress, Category: "hopelessness", Weight: 0.7},
		},
		"de": {
			{Pattern: `\b(ich\s+will\s+sterben|selbstmord|mich\s+umbringen|mich\s+töten)\b`, Class: ClassDirect, Category: "suicidal_ideation"},
			{Pattern: `\b(keinen\s+grund\s+zu\s+leben|hoffnungslos|verzweifelt)\b`, Class: ClassIndirect, Category: "hopelessness"},
		},
		"pt": {
			{Pattern: `\b(quero\s+morrer|me\s+matar|suicidar|tirar\s+minha\s+vida)\b`, Class: ClassDirect, Category: "suicidal_ideation"},
			{Pattern: `\b(não\s+aguento\s+mais|sem\s+esperança|desesperado)\b`, Class: ClassDistress, Category: "hopelessness", Weight: 0.7},
		},
		"it": {
			{Pattern: `\b(voglio\s+morire|suicidarmi|uccidermi|farla\s+finita)\b`, Class: ClassDirect, Category: "suicidal_ideation"},
			{Pattern: `\b(non\s+ce\s+la\s+faccio|disperato|senza\s+speranza)\b`, Class: ClassDistress, Category: "hopelessness", Weight: 0.7},
		},
		"zh": {
			{Pattern: `(我想死|自杀|结束生命|不想活)`, Class: ClassDirect, Category: "suicidal_ideation"},
			{Pattern: `(活不下去|生不如死|没有希望)`, Class: ClassIndirect, Category: "hopelessness"},
			{Pattern: `(绝望|撑不下去|崩溃)`, Class: ClassDistress, Category: "hopelessness", Weight: 0.7},
		},
		"ja": {
			{Pattern: `(死にたい|自殺|消えたい|終わりにしたい)`, Class: ClassDirect, Category: "suicidal_ideation"},
			{Pattern: `(生きる意味がない|希望がない|絶望)`, Class: ClassIndirect, Category: "hopelessness"},
		},
		"ko": {
			{Pattern: `(죽고\s*싶|자살|삶을\s*끝내고\s*싶)`, Class: ClassDirect, Category: "suicidal_ideation"},
			{Pattern: `(희망이\s*없|절망적|더\s*이상\s*못)`, Class: ClassIndirect, Category: "hopelessness"},
		},
		"ar": {
			{Pattern: `(أريد أن أموت|انتحار|أقتل نفسي)`, Class: ClassDirect, Category: "suicidal_ideation"},
			{Pattern: `(لا أمل|يائس|لا أستطيع الاستمرار)`, Class: ClassIndirect, Category: "hopelessness"},
		},
	}
}

// builtinFalsePositives lists idiomatic phrases that commonly trigger the
// tables above without any risk signal.
func builtinFalsePositives() []string {
	return []string{
		`deadline.*killing`,
		`killing?\s+time`,
		`dying\s+of\s+laugh`,
		`dying\s+of\s+embarra`,
		`dying\s+of\s+bored`,
		`to\s+die\s+for`,
		`drop[\s-]?dead\s+gorgeous`,
		`kill(ing)?\s+it\b`,
		`crush\s+is\s+killing`,
		`battery\s+(is\s+)?dying`,
		`phone\s+(is\s+)?dying`,
	}
}
