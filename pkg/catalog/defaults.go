package catalog

const docsBase = "https://docs.example.com/"

// DefaultItems returns the built-in catalog used when no catalog file is configured.
func DefaultItems() []Item {
	return []Item{
		{Value: "eq a='value1' b='value2'", Kind: KindFunction, Category: CategoryEquality,
			Description: "Checks if two values are equal", Docs: docsBase + "eq"},
		{Value: "gt a='value1' b='value2'", Kind: KindFunction, Category: CategoryEquality,
			Description: "Checks if first value is greater than second", Docs: docsBase + "gt"},
		{Value: "lt a='value1' b='value2'", Kind: KindFunction, Category: CategoryEquality,
			Description: "Checks if first value is less than second", Docs: docsBase + "lt"},

		{Value: "and arg1='value1' arg2='value2'", Kind: KindFunction, Category: CategoryLogical,
			Description: "Performs logical AND operation between multiple arguments", Docs: docsBase + "and"},
		{Value: "or arg1='value1' arg2='value2'", Kind: KindFunction, Category: CategoryLogical,
			Description: "Performs logical OR operation between multiple arguments", Docs: docsBase + "or"},
		{Value: "not value='true'", Kind: KindFunction, Category: CategoryLogical,
			Description: "Performs logical NOT operation on the value", Docs: docsBase + "not"},

		{Value: "uppercase str='hello'", Kind: KindFunction, Category: CategoryString,
			Description: "Converts string to uppercase", Docs: docsBase + "uppercase"},
		{Value: "lowercase str='HELLO'", Kind: KindFunction, Category: CategoryString,
			Description: "Converts string to lowercase", Docs: docsBase + "lowercase"},
		{Value: "trim str='   Hello   '", Kind: KindFunction, Category: CategoryString,
			Description: "Removes whitespace from both ends of a string", Docs: docsBase + "trim"},

		{Value: "FLOW.last_response", Kind: KindVariable, Category: CategoryFlow,
			Description: "Gets the last response from the flow"},
		{Value: "FLOW.last_utterance", Kind: KindVariable, Category: CategoryFlow,
			Description: "Gets the last utterance from the flow"},
		{Value: "FLOW.{variable_of_your_choice}", Kind: KindVariable, Category: CategoryFlow,
			Description: "Access any custom flow variable"},

		{Value: "SESSION.status", Kind: KindVariable, Category: CategorySession,
			Description: "Current session status"},

		{Value: "VISITOR.name", Kind: KindVariable, Category: CategoryVisitor,
			Description: "Name of the current visitor"},
		{Value: "VISITOR.region", Kind: KindVariable, Category: CategoryVisitor,
			Description: "Region of the current visitor"},
		{Value: "VISITOR.language", Kind: KindVariable, Category: CategoryVisitor,
			Description: "Preferred language of the visitor"},

		{Value: "CONTACT.name", Kind: KindVariable, Category: CategoryContact,
			Description: "Contact's full name"},
		{Value: "CONTACT.email", Kind: KindVariable, Category: CategoryContact,
			Description: "Contact's email address"},
		{Value: "CONTACT.phone", Kind: KindVariable, Category: CategoryContact,
			Description: "Contact's phone number"},
		{Value: "CONTACT.company", Kind: KindVariable, Category: CategoryContact,
			Description: "Contact's company name"},
		{Value: "CONTACT.country", Kind: KindVariable, Category: CategoryContact,
			Description: "Contact's country"},
		{Value: "CONTACT.city", Kind: KindVariable, Category: CategoryContact,
			Description: "Contact's city"},
		{Value: "CONTACT.region", Kind: KindVariable, Category: CategoryContact,
			Description: "Contact's region"},
		{Value: "CONTACT.tags", Kind: KindVariable, Category: CategoryContact,
			Description: "Tags associated with the contact"},
	}
}

// Default builds the built-in catalog.
func Default() *Catalog {
	return MustNew(DefaultItems())
}
