package growth

import (
	"fmt"

	"github.com/artem13815/growth/pkg/taxonomy"
)

// baseHours is the effort to go from zero to full proficiency in one skill.
var baseHours = map[taxonomy.Category]int{
	taxonomy.CategoryLanguage:     80,
	taxonomy.CategoryFramework:    60,
	taxonomy.CategoryDatabase:     40,
	taxonomy.CategoryCloud:        50,
	taxonomy.CategoryDevOps:       40,
	taxonomy.CategorySystemDesign: 60,
	taxonomy.CategoryDSA:          60,
	taxonomy.CategorySoftSkill:    20,
	taxonomy.CategoryDomain:       40,
	taxonomy.CategoryTool:         16,
	taxonomy.CategoryOther:        30,
}

var recommendationTemplates = map[taxonomy.Category]string{
	taxonomy.CategoryLanguage:     "Work through the %s fundamentals, then build a small end-to-end project in it.",
	taxonomy.CategoryFramework:    "Follow the official %s tutorial and rebuild one feature of an existing app with it.",
	taxonomy.CategoryDatabase:     "Model a realistic schema in %s and practise queries, indexing and migrations.",
	taxonomy.CategoryCloud:        "Deploy a small service on %s and study its core compute, storage and IAM services.",
	taxonomy.CategoryDevOps:       "Containerise or automate a personal project with %s and wire it into a pipeline.",
	taxonomy.CategorySystemDesign: "Study reference architectures for %s and write up one design of your own.",
	taxonomy.CategoryDSA:          "Practise %s problems daily, focusing on complexity analysis.",
	taxonomy.CategorySoftSkill:    "Look for regular chances to practise %s at work and ask for feedback.",
	taxonomy.CategoryDomain:       "Read up on %s and talk to practitioners about day-to-day problems.",
	taxonomy.CategoryTool:         "Use %s daily on a real project until the common workflows are automatic.",
	taxonomy.CategoryOther:        "Put together a focused study plan for %s and apply it in a small project.",
}

var suggestedResources = map[taxonomy.Category]string{
	taxonomy.CategoryLanguage:     "Official documentation; language tour; coding exercises",
	taxonomy.CategoryFramework:    "Official guides; sample applications; framework changelog",
	taxonomy.CategoryDatabase:     "Vendor documentation; query tuning guides; sample datasets",
	taxonomy.CategoryCloud:        "Provider free tier; certification learning path; architecture center",
	taxonomy.CategoryDevOps:       "Official docs; hands-on labs; CI pipeline templates",
	taxonomy.CategorySystemDesign: "System design primers; engineering blogs; architecture case studies",
	taxonomy.CategoryDSA:          "Algorithm textbooks; online judges; mock interviews",
	taxonomy.CategorySoftSkill:    "Books and workshops; mentoring sessions; peer feedback",
	taxonomy.CategoryDomain:       "Industry reports; domain courses; practitioner interviews",
	taxonomy.CategoryTool:         "Official docs; cheat sheets; daily practice",
	taxonomy.CategoryOther:        "Online courses; documentation; practice projects",
}

var milestoneTypes = map[taxonomy.Category]MilestoneType{
	taxonomy.CategoryLanguage:     MilestoneCourse,
	taxonomy.CategoryFramework:    MilestoneTutorial,
	taxonomy.CategoryDatabase:     MilestonePractice,
	taxonomy.CategoryCloud:        MilestoneCertification,
	taxonomy.CategoryDevOps:       MilestonePractice,
	taxonomy.CategorySystemDesign: MilestoneReading,
	taxonomy.CategoryDSA:          MilestonePractice,
	taxonomy.CategorySoftSkill:    MilestoneReading,
	taxonomy.CategoryDomain:       MilestoneReading,
	taxonomy.CategoryTool:         MilestoneTutorial,
	taxonomy.CategoryOther:        MilestoneCourse,
}

var pathTitles = map[taxonomy.Category]string{
	taxonomy.CategoryLanguage:     "Programming Languages",
	taxonomy.CategoryFramework:    "Frameworks & Libraries",
	taxonomy.CategoryDatabase:     "Databases & Storage",
	taxonomy.CategoryCloud:        "Cloud Platforms",
	taxonomy.CategoryDevOps:       "DevOps & Infrastructure",
	taxonomy.CategorySystemDesign: "System Design & Architecture",
	taxonomy.CategoryDSA:          "Data Structures & Algorithms",
	taxonomy.CategorySoftSkill:    "Soft Skills",
	taxonomy.CategoryDomain:       "Domain Knowledge",
	taxonomy.CategoryTool:         "Tools & Workflow",
	taxonomy.CategoryOther:        "General Skills",
}

// lookups fall back to the "other" row for categories a custom taxonomy might add

func hoursFor(c taxonomy.Category) int {
	if h, ok := baseHours[c]; ok {
		return h
	}
	return baseHours[taxonomy.CategoryOther]
}

func recommendationFor(c taxonomy.Category, skill string) string {
	tpl, ok := recommendationTemplates[c]
	if !ok {
		tpl = recommendationTemplates[taxonomy.CategoryOther]
	}
	return fmt.Sprintf(tpl, skill)
}

func resourcesFor(c taxonomy.Category) string {
	if r, ok := suggestedResources[c]; ok {
		return r
	}
	return suggestedResources[taxonomy.CategoryOther]
}

func milestoneTypeFor(c taxonomy.Category) MilestoneType {
	if t, ok := milestoneTypes[c]; ok {
		return t
	}
	return MilestoneCourse
}

func pathTitleFor(c taxonomy.Category) string {
	if t, ok := pathTitles[c]; ok {
		return t
	}
	return pathTitles[taxonomy.CategoryOther]
}
