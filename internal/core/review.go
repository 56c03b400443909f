package core

// Persona is a named reviewer configuration. Its Instructions are sent as the
// system prompt to elicit one review angle from the model.
type Persona struct {
	Name         string `yaml:"name"`
	Icon         string `yaml:"icon"`
	Instructions string `yaml:"instructions"`
}

// Feedback is the review text one persona produced for a diff.
type Feedback struct {
	Persona Persona
	Body    string
}

// DefaultPersonas returns the built-in review committee, in the order its
// members are consulted.
func DefaultPersonas() []Persona {
	return []Persona{
		{
			Name: "Security Analyst",
			Icon: "🛡️",
			Instructions: "You are a senior cybersecurity analyst. Your sole focus is to find security vulnerabilities in this code diff. " +
				"Identify potential issues like SQL injection, XSS, insecure direct object references, or improper handling of secrets. " +
				"Be concise, critical, and provide code examples for fixes. If you find no issues, respond with 'No issues found.'.",
		},
		{
			Name: "Performance Guru",
			Icon: "⚡",
			Instructions: "You are a principal engineer obsessed with performance and efficiency. " +
				"Analyze this code diff for performance bottlenecks like N+1 queries, inefficient loops, or blocking I/O. " +
				"Provide actionable suggestions for optimization. If you find no issues, respond with 'No issues found.'.",
		},
		{
			Name: "Maintainability Coach",
			Icon: "🧹",
			Instructions: "You are a software architect who champions clean, readable, and maintainable code. " +
				"Review this diff for code clarity, adherence to SOLID principles, and excessive complexity. " +
				"Suggest refactoring to improve long-term maintainability. If you find no issues, respond with 'No issues found.'.",
		},
	}
}
