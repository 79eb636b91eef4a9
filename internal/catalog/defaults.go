package catalog

import "github.com/nidhogg/agentmatch/internal/taxonomy"

// DefaultProfiles is the built-in agent catalog used when no catalog file
// is configured.
func DefaultProfiles() []AgentProfile {
	return []AgentProfile{
		{
			ID:   "github-copilot",
			Name: "GitHub Copilot",
			SkillStrengths: map[string]float64{
				"code_generation": 0.9, "algorithms": 0.6, "api": 0.6, "ui": 0.6,
				"testing": 0.6, "documentation": 0.6, "debugging": 0.5, "refactoring": 0.5,
			},
			TaskTypeAffinity: map[taxonomy.TaskType]float64{
				taxonomy.FeatureImplementation: 0.9, taxonomy.Testing: 0.6, taxonomy.Documentation: 0.6,
				taxonomy.BugFix: 0.5, taxonomy.Refactoring: 0.5, taxonomy.DataProcessing: 0.5,
				taxonomy.CodeReview: 0.4, taxonomy.ArchitectureDesign: 0.3, taxonomy.General: 0.7,
			},
			ComplexityFit: map[taxonomy.Complexity]float64{
				taxonomy.Low: 0.9, taxonomy.Medium: 0.8, taxonomy.High: 0.4,
			},
			FeatureTags: []string{
				"Inline code completion",
				"Function generation from comments",
				"Unit test generation",
				"Chat inside the IDE",
				"Broad multi-language support",
			},
		},
		{
			ID:                 "cursor",
			Name:               "Cursor",
			SupportedLanguages: []string{"python", "javascript", "typescript", "go", "rust", "java", "c++"},
			SkillStrengths: map[string]float64{
				"refactoring": 0.9, "code_generation": 0.8, "debugging": 0.7, "ui": 0.7,
				"api": 0.7, "testing": 0.6, "architecture": 0.5,
			},
			TaskTypeAffinity: map[taxonomy.TaskType]float64{
				taxonomy.Refactoring: 0.9, taxonomy.FeatureImplementation: 0.8, taxonomy.BugFix: 0.7,
				taxonomy.CodeReview: 0.6, taxonomy.Testing: 0.6, taxonomy.ArchitectureDesign: 0.5,
				taxonomy.Documentation: 0.5, taxonomy.DataProcessing: 0.5, taxonomy.General: 0.6,
			},
			ComplexityFit: map[taxonomy.Complexity]float64{
				taxonomy.Low: 0.7, taxonomy.Medium: 0.9, taxonomy.High: 0.7,
			},
			FeatureTags: []string{
				"Codebase-aware chat",
				"Multi-file refactoring edits",
				"Debugging assistance with context",
				"UI component generation",
				"Inline diff review",
			},
		},
		{
			ID:   "claude-code",
			Name: "Claude Code",
			SkillStrengths: map[string]float64{
				"debugging": 0.9, "architecture": 0.9, "code_review": 0.9, "refactoring": 0.8,
				"concurrency": 0.8, "security": 0.8, "testing": 0.8, "documentation": 0.8,
				"algorithms": 0.8, "code_generation": 0.8,
			},
			TaskTypeAffinity: map[taxonomy.TaskType]float64{
				taxonomy.BugFix: 0.9, taxonomy.ArchitectureDesign: 0.9, taxonomy.CodeReview: 0.9,
				taxonomy.Refactoring: 0.8, taxonomy.FeatureImplementation: 0.8, taxonomy.Testing: 0.8,
				taxonomy.Documentation: 0.8, taxonomy.DataProcessing: 0.7, taxonomy.General: 0.6,
			},
			ComplexityFit: map[taxonomy.Complexity]float64{
				taxonomy.Low: 0.6, taxonomy.Medium: 0.8, taxonomy.High: 0.95,
			},
			FeatureTags: []string{
				"Agentic multi-step debugging",
				"Architecture and system design reasoning",
				"Large codebase refactoring",
				"Security-aware code review",
				"Terminal and git integration",
			},
		},
		{
			ID:                 "aider",
			Name:               "Aider",
			SupportedLanguages: []string{"python", "javascript", "typescript", "go", "rust", "java", "c++", "ruby", "php"},
			SkillStrengths: map[string]float64{
				"refactoring": 0.8, "code_generation": 0.7, "testing": 0.7, "debugging": 0.7,
				"documentation": 0.5,
			},
			TaskTypeAffinity: map[taxonomy.TaskType]float64{
				taxonomy.Refactoring: 0.85, taxonomy.BugFix: 0.75, taxonomy.FeatureImplementation: 0.7,
				taxonomy.Testing: 0.7, taxonomy.Documentation: 0.5, taxonomy.CodeReview: 0.4,
				taxonomy.ArchitectureDesign: 0.3, taxonomy.DataProcessing: 0.4, taxonomy.General: 0.5,
			},
			ComplexityFit: map[taxonomy.Complexity]float64{
				taxonomy.Low: 0.8, taxonomy.Medium: 0.8, taxonomy.High: 0.5,
			},
			FeatureTags: []string{
				"Git-native commits per change",
				"Multi-file edits from the terminal",
				"Test-driven fix loops",
				"Works with local and hosted models",
			},
		},
		{
			ID:                 "amazon-q-developer",
			Name:               "Amazon Q Developer",
			SupportedLanguages: []string{"python", "java", "javascript", "typescript", "c#", "go", "sql"},
			SkillStrengths: map[string]float64{
				"devops": 0.9, "security": 0.9, "api": 0.7, "database": 0.7,
				"data_engineering": 0.7, "code_generation": 0.7, "performance": 0.6,
			},
			TaskTypeAffinity: map[taxonomy.TaskType]float64{
				taxonomy.DataProcessing: 0.8, taxonomy.FeatureImplementation: 0.7, taxonomy.CodeReview: 0.6,
				taxonomy.ArchitectureDesign: 0.6, taxonomy.BugFix: 0.6, taxonomy.Refactoring: 0.6,
				taxonomy.Testing: 0.5, taxonomy.Documentation: 0.5, taxonomy.General: 0.5,
			},
			ComplexityFit: map[taxonomy.Complexity]float64{
				taxonomy.Low: 0.6, taxonomy.Medium: 0.8, taxonomy.High: 0.7,
			},
			FeatureTags: []string{
				"AWS service integration",
				"Security vulnerability scanning",
				"Infrastructure as code generation for devops",
				"Java version upgrade transformations",
				"Data pipeline and database helpers",
			},
		},
		{
			ID:   "tabnine",
			Name: "Tabnine",
			SkillStrengths: map[string]float64{
				"code_generation": 0.8, "security": 0.5, "testing": 0.5, "documentation": 0.5,
			},
			TaskTypeAffinity: map[taxonomy.TaskType]float64{
				taxonomy.FeatureImplementation: 0.7, taxonomy.Documentation: 0.6, taxonomy.Testing: 0.5,
				taxonomy.BugFix: 0.4, taxonomy.Refactoring: 0.4, taxonomy.CodeReview: 0.4,
				taxonomy.ArchitectureDesign: 0.2, taxonomy.DataProcessing: 0.3, taxonomy.General: 0.6,
			},
			ComplexityFit: map[taxonomy.Complexity]float64{
				taxonomy.Low: 0.95, taxonomy.Medium: 0.6, taxonomy.High: 0.3,
			},
			FeatureTags: []string{
				"Private on-prem deployment",
				"Fast inline completions",
				"Team-trained models",
				"Documentation generation",
			},
		},
	}
}

// Default returns a catalog built from DefaultProfiles.
func Default(tax *taxonomy.Taxonomy) (*Catalog, error) {
	return New(DefaultProfiles(), tax)
}
