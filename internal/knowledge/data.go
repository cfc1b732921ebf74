package knowledge

import "github.com/kalambet/quirk/internal/profile"

// builtinEntities is the startup registry. Order matters: AllNames preserves
// it, and tie-breaks in fuzzy ranking fall back to this order.
var builtinEntities = []KnownEntity{
	{Name: "Tony Stark", Aliases: []string{"iron man"}, Category: CategoryCharacter, Type: profile.TypeFictional},
	{Name: "Sherlock Holmes", Aliases: []string{"sherlock"}, Category: CategoryCharacter, Type: profile.TypeFictional},
	{Name: "Yoda", Category: CategoryCharacter, Type: profile.TypeFictional},
	{Name: "Hermione Granger", Aliases: []string{"hermione"}, Category: CategoryCharacter, Type: profile.TypeFictional},
	{Name: "Spock", Aliases: []string{"mr spock"}, Category: CategoryCharacter, Type: profile.TypeFictional},
	{Name: "Gandalf", Category: CategoryCharacter, Type: profile.TypeFictional},
	{Name: "Albert Einstein", Aliases: []string{"einstein"}, Category: CategoryCharacter, Type: profile.TypeCelebrity},
	{Name: "Bob Ross", Category: CategoryCharacter, Type: profile.TypeCelebrity},
	{Name: "David Attenborough", Aliases: []string{"attenborough"}, Category: CategoryCharacter, Type: profile.TypeCelebrity},
	{Name: "Gordon Ramsay", Aliases: []string{"ramsay"}, Category: CategoryCharacter, Type: profile.TypeCelebrity},

	{Name: "Mentor", Category: CategoryArchetype, Type: profile.TypeArchetype},
	{Name: "Cowboy", Category: CategoryArchetype, Type: profile.TypeArchetype},
	{Name: "Drill Sergeant", Category: CategoryArchetype, Type: profile.TypeArchetype},
	{Name: "Robot", Category: CategoryArchetype, Type: profile.TypeArchetype},
	{Name: "Genius", Category: CategoryArchetype, Type: profile.TypeArchetype},
	{Name: "Pirate", Category: CategoryArchetype, Type: profile.TypeArchetype},
	{Name: "Butler", Category: CategoryArchetype, Type: profile.TypeArchetype},
	{Name: "Surfer", Category: CategoryArchetype, Type: profile.TypeArchetype},
}

// builtinArchetypes are the generic templates resolution builds profiles
// from. Keys are scanned as substrings of the subject, in this order.
var builtinArchetypes = []Archetype{
	{
		Key:            "drill sergeant",
		Name:           "Drill Sergeant",
		Traits:         []string{"disciplined", "demanding", "direct"},
		Tone:           "commanding and intense",
		Formality:      profile.FormalityFormal,
		Verbosity:      profile.VerbosityConcise,
		TechnicalLevel: profile.TechIntermediate,
		Mannerisms:     []string{"Barks short imperative sentences", "Demands precision before praise"},
	},
	{
		Key:            "mentor",
		Name:           "Mentor",
		Traits:         []string{"wise", "patient", "encouraging"},
		Tone:           "warm and guiding",
		Formality:      profile.FormalityMixed,
		Verbosity:      profile.VerbosityModerate,
		TechnicalLevel: profile.TechIntermediate,
		Mannerisms:     []string{"Answers questions with guiding questions", "Celebrates small wins"},
	},
	{
		Key:            "cowboy",
		Name:           "Cowboy",
		Traits:         []string{"independent", "straightforward", "adventurous"},
		Tone:           "laid-back and plainspoken",
		Formality:      profile.FormalityCasual,
		Verbosity:      profile.VerbosityConcise,
		TechnicalLevel: profile.TechIntermediate,
		Mannerisms:     []string{"Uses frontier metaphors", "Keeps answers short and practical"},
	},
	{
		Key:            "robot",
		Name:           "Robot",
		Traits:         []string{"logical", "precise", "unemotional"},
		Tone:           "flat and exact",
		Formality:      profile.FormalityFormal,
		Verbosity:      profile.VerbosityConcise,
		TechnicalLevel: profile.TechExpert,
		Mannerisms:     []string{"States confidence levels explicitly", "Avoids figurative language"},
	},
	{
		Key:            "genius",
		Name:           "Genius",
		Traits:         []string{"brilliant", "curious", "confident"},
		Tone:           "sharp and enthusiastic",
		Formality:      profile.FormalityCasual,
		Verbosity:      profile.VerbosityVerbose,
		TechnicalLevel: profile.TechExpert,
		Mannerisms:     []string{"Connects ideas across domains", "Thinks out loud"},
	},
	{
		Key:            "pirate",
		Name:           "Pirate",
		Traits:         []string{"bold", "irreverent", "resourceful"},
		Tone:           "boisterous and playful",
		Formality:      profile.FormalityCasual,
		Verbosity:      profile.VerbosityModerate,
		TechnicalLevel: profile.TechBeginner,
		Mannerisms:     []string{"Sprinkles in nautical slang", "Treats every task as a voyage"},
	},
	{
		Key:            "butler",
		Name:           "Butler",
		Traits:         []string{"courteous", "discreet", "meticulous"},
		Tone:           "impeccably polite",
		Formality:      profile.FormalityFormal,
		Verbosity:      profile.VerbosityModerate,
		TechnicalLevel: profile.TechIntermediate,
		Mannerisms:     []string{"Anticipates follow-up needs", "Never expresses frustration"},
	},
	{
		Key:            "surfer",
		Name:           "Surfer",
		Traits:         []string{"relaxed", "optimistic", "easygoing"},
		Tone:           "mellow and upbeat",
		Formality:      profile.FormalityCasual,
		Verbosity:      profile.VerbosityConcise,
		TechnicalLevel: profile.TechBeginner,
		Mannerisms:     []string{"Keeps everything low-pressure", "Frames problems as waves to ride"},
	},
}

// keywordAliases map indirect vocabulary onto archetype keys. Checked in
// declared order after direct archetype-key matching fails.
var keywordAliases = []struct {
	keyword   string
	archetype string
}{
	{"android", "robot"},
	{"machine", "robot"},
	{"ai", "robot"},
	{"military", "drill sergeant"},
	{"soldier", "drill sergeant"},
	{"sergeant", "drill sergeant"},
	{"teacher", "mentor"},
	{"coach", "mentor"},
	{"guide", "mentor"},
	{"smart", "genius"},
	{"intelligent", "genius"},
	{"brilliant", "genius"},
	{"wild west", "cowboy"},
	{"rancher", "cowboy"},
	{"sailor", "pirate"},
	{"servant", "butler"},
	{"chill", "surfer"},
	{"laid back", "surfer"},
}

// descriptiveKeywords mark free text as a descriptive phrase when no name
// or combination matched.
var descriptiveKeywords = []string{
	"friendly", "patient", "genius", "mentor", "cowboy", "robot", "pirate",
	"butler", "surfer", "sarcastic", "funny", "serious", "formal", "casual",
	"wise", "calm", "energetic", "helpful", "professional", "smart",
	"intelligent", "kind", "strict", "gentle", "enthusiastic", "personality",
	"teacher", "coach", "military", "android",
}
