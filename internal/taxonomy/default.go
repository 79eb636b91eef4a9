package taxonomy

// Default returns the built-in vocabulary. Each call returns a fresh value
// so callers may adjust it without affecting others.
func Default() *Taxonomy {
	t := &Taxonomy{
		TaskTypes: []TaskTypeRule{
			{
				Type: BugFix,
				Triggers: []string{
					"fix", "fixes", "fixing", "bug", "bugs", "error", "errors", "crash", "crashes",
					"broken", "failing", "exception", "null pointer", "nil pointer", "debug",
					"regression", "not working",
				},
				ImpliedSkills: []string{"debugging"},
			},
			{
				Type: FeatureImplementation,
				Triggers: []string{
					"add", "implement", "implementing", "build", "create", "new feature",
					"develop", "feature", "support for", "integrate", "scaffold",
				},
				ImpliedSkills: []string{"code_generation"},
			},
			{
				Type: Refactoring,
				Triggers: []string{
					"refactor", "refactoring", "clean up", "cleanup", "clean-up", "restructure",
					"simplify", "rename", "extract", "modernize", "technical debt", "legacy", "migrate",
				},
				ImpliedSkills: []string{"refactoring"},
			},
			{
				Type: CodeReview,
				Triggers: []string{
					"review", "code review", "pull request", "audit", "feedback on", "critique",
					"check my code",
				},
				ImpliedSkills: []string{"code_review"},
			},
			{
				Type: Testing,
				Triggers: []string{
					"test", "tests", "testing", "unit test", "unit tests", "integration test",
					"integration tests", "coverage", "test case", "test cases", "e2e", "tdd",
					"mock", "mocks",
				},
				ImpliedSkills: []string{"testing"},
			},
			{
				Type: Documentation,
				Triggers: []string{
					"document", "documentation", "docs", "readme", "docstring", "docstrings",
					"comments", "api reference", "tutorial",
				},
				ImpliedSkills: []string{"documentation"},
			},
			{
				Type: ArchitectureDesign,
				Triggers: []string{
					"design", "architecture", "architect", "system design", "microservice",
					"microservices", "scalable", "scalability", "design pattern", "high-level",
					"blueprint", "distributed system",
				},
				ImpliedSkills: []string{"architecture"},
			},
			{
				Type: DataProcessing,
				Triggers: []string{
					"pipeline", "etl", "data", "dataset", "datasets", "csv", "parse", "ingest",
					"ingestion", "transform", "batch", "analytics", "data processing",
				},
				ImpliedSkills: []string{"data_engineering"},
			},
		},
		Skills: []SkillRule{
			{Tag: "debugging", Triggers: []string{
				"debug", "debugging", "bug", "crash", "stack trace", "exception", "null pointer",
				"nil pointer", "segfault", "panic", "error",
			}},
			{Tag: "api", Triggers: []string{
				"api", "apis", "endpoint", "endpoints", "rest api", "graphql", "grpc", "http", "webhook",
			}},
			{Tag: "database", Triggers: []string{
				"database", "databases", "sql", "query", "queries", "schema", "migration",
				"postgres", "postgresql", "mysql", "sqlite", "mongodb", "orm",
			}},
			{Tag: "concurrency", Triggers: []string{
				"concurrency", "concurrent", "thread", "threads", "goroutine", "goroutines",
				"async", "race condition", "deadlock", "parallel", "mutex",
			}},
			{Tag: "ui", Triggers: []string{
				"ui", "frontend", "front-end", "css", "html", "react", "vue", "component",
				"components", "layout", "button", "page", "ux",
			}},
			{Tag: "testing", Triggers: []string{
				"test", "tests", "testing", "unit test", "coverage", "integration test", "e2e",
				"tdd", "mock",
			}},
			{Tag: "security", Triggers: []string{
				"security", "secure", "auth", "authentication", "authorization", "vulnerability",
				"xss", "csrf", "encryption", "token", "oauth",
			}},
			{Tag: "performance", Triggers: []string{
				"performance", "slow", "latency", "optimize", "optimise", "optimization",
				"memory leak", "profiling", "throughput", "cache", "caching",
			}},
			{Tag: "algorithms", Triggers: []string{
				"algorithm", "algorithms", "sorting", "graph", "dynamic programming", "recursion",
				"binary search", "data structure", "data structures",
			}},
			{Tag: "architecture", Triggers: []string{
				"architecture", "microservice", "microservices", "system design", "scalability",
				"scalable", "design pattern", "distributed",
			}},
			{Tag: "data_engineering", Triggers: []string{
				"pipeline", "pipelines", "etl", "dataset", "data processing", "batch", "streaming",
				"kafka", "spark", "ingestion", "csv",
			}},
			{Tag: "documentation", Triggers: []string{
				"documentation", "docs", "readme", "docstring", "docstrings", "api reference",
			}},
			{Tag: "refactoring", Triggers: []string{
				"refactor", "refactoring", "clean up", "cleanup", "legacy", "technical debt",
				"restructure",
			}},
			{Tag: "code_review", Triggers: []string{
				"review", "code review", "pull request", "code quality", "lint", "linting",
			}},
			{Tag: "devops", Triggers: []string{
				"deploy", "deployment", "docker", "kubernetes", "k8s", "ci", "terraform",
				"infrastructure", "helm",
			}},
			{Tag: "code_generation", Triggers: []string{
				"implement", "generate", "scaffold", "boilerplate", "new feature", "prototype",
			}},
		},
		Languages: []LanguageRule{
			{Name: "python", Aliases: []string{"py", "python3"}, Extensions: []string{".py"}},
			{Name: "javascript", Aliases: []string{"js", "node.js", "nodejs"}, Extensions: []string{".js", ".jsx", ".mjs"}},
			{Name: "typescript", Aliases: []string{"ts"}, Extensions: []string{".ts", ".tsx"}},
			{Name: "java", Extensions: []string{".java"}},
			{Name: "go", Aliases: []string{"golang", "go code", "go service", "go module", "in go"}, Extensions: []string{".go"}, Ambiguous: true},
			{Name: "rust", Aliases: []string{"rs"}, Extensions: []string{".rs"}},
			{Name: "c++", Aliases: []string{"cpp", "c plus plus"}, Extensions: []string{".cpp", ".cc", ".hpp"}},
			{Name: "c#", Aliases: []string{"csharp", "c sharp", "dotnet", ".net"}, Extensions: []string{".cs"}},
			{Name: "ruby", Aliases: []string{"rails"}, Extensions: []string{".rb"}},
			{Name: "php", Extensions: []string{".php"}},
			{Name: "kotlin", Extensions: []string{".kt"}},
			{Name: "swift", Extensions: []string{".swift"}},
			{Name: "scala", Extensions: []string{".scala"}},
			{Name: "dart", Aliases: []string{"flutter"}, Extensions: []string{".dart"}},
			{Name: "sql", Extensions: []string{".sql"}, ImpliedSkills: []string{"database"}},
			{Name: "html", Extensions: []string{".html"}, ImpliedSkills: []string{"ui"}},
			{Name: "css", Aliases: []string{"scss", "sass"}, Extensions: []string{".css", ".scss"}, ImpliedSkills: []string{"ui"}},
			{Name: "bash", Aliases: []string{"shell", "shell script"}, Extensions: []string{".sh"}, ImpliedSkills: []string{"devops"}},
		},
		Amplifiers: []string{
			"large", "entire system", "entire codebase", "whole codebase", "multiple modules",
			"multiple services", "across", "complex", "distributed", "microservices", "scalable",
			"migration", "migrate", "end-to-end", "production", "enterprise", "rewrite",
		},
		Reducers: []string{
			"small", "quick", "simple", "one-line", "one line", "typo", "minor", "tiny",
			"trivial", "single function",
		},
	}
	t.normalize()
	return t
}
