package resources

// builtinRegions holds the compiled-in directory. Deployments extend or
// replace regions through the resources file; see LoadResolver.
func builtinRegions() map[string][]Entry {
	return map[string][]Entry{
		"US": {
			{Name: "988 Suicide & Crisis Lifeline", Phone: "988", Text: "988", Web: "https://988lifeline.org", Languages: []string{"en", "es"}, Priority: 1},
			{Name: "Crisis Text Line", Text: "HOME to 741741", Web: "https://crisistextline.org", Languages: []string{"en"}, Priority: 2},
			{Name: "SAMHSA National Helpline", Phone: "1-800-662-4357", Web: "https://samhsa.gov", Languages: []string{"en", "es"}, Priority: 3},
			{Name: "National Domestic Violence Hotline", Phone: "1-800-799-7233", Text: "START to 22522", Web: "https://thehotline.org", Languages: []string{"en", "es"}, Specialties: []string{"domestic_violence"}, Priority: 4},
			{Name: "Línea de Crisis Hispana", Phone: "1-888-628-9454", Web: "https://suicidioprevencion.org", Languages: []string{"es"}, Priority: 5},
			{Name: "Asian LifeNet Hotline", Phone: "1-877-990-8585", Languages: []string{"zh", "ko", "ja", "hi", "vi", "en"}, Specialties: []string{"asian_community"}, Priority: 6},
			{Name: "Trevor Lifeline", Phone: "1-866-488-7386", Text: "START to 678678", Web: "https://thetrevorproject.org", Languages: []string{"en", "es"}, Specialties: []string{"lgbtq", "youth"}, Priority: 7},
			{Name: "Trans Lifeline", Phone: "1-877-565-8860", Web: "https://translifeline.org", Languages: []string{"en", "es"}, Specialties: []string{"transgender"}, Priority: 8},
			{Name: "Veterans Crisis Line", Phone: "1-800-273-8255", Text: "838255", Web: "https://veteranscrisisline.net", Languages: []string{"en", "es"}, Specialties: []string{"veterans"}, Priority: 9},
			{Name: "StrongHearts Native Helpline", Phone: "1-844-762-8483", Web: "https://strongheartshelpline.org", Languages: []string{"en"}, Specialties: []string{"native_american", "domestic_violence"}, Priority: 10},
		},
		"GB": {
			{Name: "Samaritans", Phone: "116 123", Web: "https://samaritans.org", Languages: []string{"en"}, Priority: 1},
			{Name: "Shout Crisis Text Line", Text: "SHOUT to 85258", Web: "https://giveusashout.org", Languages: []string{"en"}, Priority: 2},
		},
		"CA": {
			{Name: "Talk Suicide Canada", Phone: "1-833-456-4566", Text: "TALK to 45645", Web: "https://talksuicide.ca", Languages: []string{"en", "fr"}, Priority: 1},
			{Name: "Kids Help Phone", Phone: "1-800-668-6868", Text: "CONNECT to 686868", Web: "https://kidshelpphone.ca", Languages: []string{"en", "fr"}, Specialties: []string{"youth"}, Priority: 2},
		},
		"AU": {
			{Name: "Lifeline Australia", Phone: "13 11 14", Text: "0477 13 11 14", Web: "https://lifeline.org.au", Languages: []string{"en"}, Priority: 1},
		},
		"FR": {
			{Name: "3114 Numéro National de Prévention du Suicide", Phone: "3114", Web: "https://3114.fr", Languages: []string{"fr"}, Priority: 1},
			{Name: "SOS Amitié", Phone: "09 72 39 40 50", Web: "https://sos-amitie.com", Languages: []string{"fr"}, Priority: 2},
		},
		"DE": {
			{Name: "Telefonseelsorge", Phone: "0800 111 0 111", Web: "https://telefonseelsorge.de", Languages: []string{"de"}, Priority: 1},
			{Name: "Nummer gegen Kummer", Phone: "116 111", Web: "https://nummergegenkummer.de", Languages: []string{"de"}, Specialties: []string{"youth", "parents"}, Priority: 2},
		},
		"ES": {
			{Name: "024 Línea de Atención a la Conducta Suicida", Phone: "024", Web: "https://024.es", Languages: []string{"es"}, Priority: 1},
			{Name: "Teléfono de la Esperanza", Phone: "717 003 717", Web: "https://telefonodelaesperanza.org", Languages: []string{"es"}, Priority: 2},
		},
		"IT": {
			{Name: "Telefono Amico Italia", Phone: "02 2327 2327", Web: "https://telefonoamico.it", Languages: []string{"it"}, Priority: 1},
		},
		"NL": {
			{Name: "113 Zelfmoordpreventie", Phone: "113", Web: "https://113.nl", Languages: []string{"nl"}, Priority: 1},
		},
		"BE": {
			{Name: "Centre de Prévention du Suicide", Phone: "0800 32 123", Web: "https://preventionsuicide.be", Languages: []string{"fr", "nl"}, Priority: 1},
		},
		"AT": {
			{Name: "Telefonseelsorge Österreich", Phone: "142", Web: "https://telefonseelsorge.at", Languages: []string{"de"}, Priority: 1},
		},
		"CH": {
			{Name: "Die Dargebotene Hand", Phone: "143", Web: "https://143.ch", Languages: []string{"de", "fr", "it"}, Priority: 1},
		},
		"IE": {
			{Name: "Samaritans Ireland", Phone: "116 123", Web: "https://samaritans.ie", Languages: []string{"en"}, Priority: 1},
		},
		"SE": {
			{Name: "Mind Självmordslinjen", Phone: "90101", Web: "https://mind.se", Languages: []string{"sv"}, Priority: 1},
		},
		"DK": {
			{Name: "Kirkens SOS", Phone: "70 201 201", Web: "https://kirkens-sos.dk", Languages: []string{"da"}, Priority: 1},
		},
		"NO": {
			{Name: "Mental Helse", Phone: "116 123", Web: "https://mentalhelse.no", Languages: []string{"no"}, Priority: 1},
		},
		"FI": {
			{Name: "Mieli Crisis Line", Phone: "09 2525 0111", Web: "https://mieli.fi", Languages: []string{"fi", "sv"}, Priority: 1},
		},
		"PL": {
			{Name: "Fundacja ITAKA", Phone: "22 654 11 11", Web: "https://itaka.org.pl", Languages: []string{"pl"}, Priority: 1},
		},
		"CZ": {
			{Name: "Linka bezpečí", Phone: "116 111", Web: "https://linkabezpeci.cz", Languages: []string{"cs"}, Specialties: []string{"youth"}, Priority: 1},
		},
		"HU": {
			{Name: "Kék Vonal", Phone: "116 123", Web: "https://kek-vonal.hu", Languages: []string{"hu"}, Priority: 1},
		},
		"JP": {
			{Name: "TELL Lifeline", Phone: "03-5774-0992", Web: "https://telljp.com", Languages: []string{"en", "ja"}, Priority: 1},
		},
		"KR": {
			{Name: "Korea Suicide Prevention Center", Phone: "1393", Web: "https://spckorea.or.kr", Languages: []string{"ko"}, Priority: 1},
		},
		"IN": {
			{Name: "AASRA", Phone: "91-22-27546669", Web: "https://aasra.info", Languages: []string{"en", "hi"}, Priority: 1},
		},
		"SG": {
			{Name: "Samaritans of Singapore", Phone: "1767", Web: "https://sos.org.sg", Languages: []string{"en"}, Priority: 1},
		},
		"NZ": {
			{Name: "Lifeline Aotearoa", Phone: "0800 543 354", Text: "HELP to 4357", Web: "https://lifeline.org.nz", Languages: []string{"en"}, Priority: 1},
		},
		"MX": {
			{Name: "Línea de la Vida", Phone: "800 911 2000", Web: "https://lineadelavida.gob.mx", Languages: []string{"es"}, Priority: 1},
		},
		"BR": {
			{Name: "Centro de Valorização da Vida", Phone: "188", Web: "https://cvv.org.br", Languages: []string{"pt"}, Priority: 1},
		},
		"AR": {
			{Name: "Centro de Asistencia al Suicida", Phone: "135", Web: "https://casbuenosaires.com.ar", Languages: []string{"es"}, Priority: 1},
		},
	}
}

// builtinUniversal is the region-independent fallback shown when no
// region entry exists. Directory services rather than hotlines, so they
// work from anywhere.
func builtinUniversal() []Entry {
	return []Entry{
		{Name: "Find a Helpline", Web: "https://findahelpline.com", Priority: 1},
		{Name: "Befrienders Worldwide", Web: "https://befrienders.org", Priority: 2},
		{Name: "IASP Crisis Centres Directory", Web: "https://iasp.info/crisis-centres-helplines", Priority: 3},
	}
}
