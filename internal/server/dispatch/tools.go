package dispatch

// toolDescriptor is the tools/list entry for one tool.
type toolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var toolDescriptors = []toolDescriptor{
	{
		Name:        "list_articles",
		Description: "List all available articles with metadata and pricing.",
		InputSchema: objectSchema(map[string]any{}),
	},
	{
		Name:        "preview_article",
		Description: "Return the free preview of an article: metadata plus the opening paragraphs.",
		InputSchema: objectSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Article identifier"},
		}, "id"),
	},
	{
		Name:        "get_article",
		Description: "Fetch the full article. Paid articles require a funded budget or an attached payment; otherwise a payment challenge is returned.",
		InputSchema: objectSchema(map[string]any{
			"id":      map[string]any{"type": "string", "description": "Article identifier"},
			"payer":   map[string]any{"type": "string", "description": "Caller wallet address or signed identity token"},
			"payment": map[string]any{"type": "string", "description": "Payment proof payload, if paying directly"},
		}, "id"),
	},
	{
		Name:        "get_balance",
		Description: "Return the remaining pre-paid budget for a wallet address.",
		InputSchema: objectSchema(map[string]any{
			"owner": map[string]any{"type": "string", "description": "Wallet address"},
		}, "owner"),
	},
	{
		Name:        "confirm_deposit",
		Description: "Verify a payment proof and credit the amount to a wallet's pre-paid budget.",
		InputSchema: objectSchema(map[string]any{
			"owner":   map[string]any{"type": "string", "description": "Wallet address to credit"},
			"amount":  map[string]any{"type": "string", "description": "Deposit amount as a decimal string"},
			"payment": map[string]any{"type": "string", "description": "Payment proof payload"},
		}, "owner", "amount", "payment"),
	},
}
