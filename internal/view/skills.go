package view

import "fmt"

// SkillKind groups skill tags on the results page.
type SkillKind string

const (
	SkillStrong      SkillKind = "strong"
	SkillImprovement SkillKind = "improvement"
	SkillRecommended SkillKind = "recommended"
)

// SkillTag is one clickable skill chip.
type SkillTag struct {
	Name   string
	Kind   SkillKind
	Detail string
}

// SkillTags builds tags of one kind, skipping blanks.
func SkillTags(names []string, kind SkillKind) []SkillTag {
	tags := make([]SkillTag, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		tags = append(tags, SkillTag{Name: name, Kind: kind, Detail: SkillDetail(name, kind)})
	}
	return tags
}

// SkillDetail is the explanation shown when a tag is selected.
func SkillDetail(name string, kind SkillKind) string {
	switch kind {
	case SkillStrong:
		return fmt.Sprintf("Great! You have strong experience with %s. This is a key strength for this position.", name)
	case SkillImprovement:
		return fmt.Sprintf("%s is mentioned in the job requirements but not prominently featured in your resume. Consider highlighting related experience.", name)
	case SkillRecommended:
		return fmt.Sprintf("Learning %s would significantly improve your match for this type of position.", name)
	default:
		return fmt.Sprintf("Information about %s", name)
	}
}
