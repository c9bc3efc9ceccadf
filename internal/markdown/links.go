package markdown

// LinkKind identifies the markdown construct a link came from.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

// Link is a link-like construct found in a markdown body.
type Link struct {
	Kind        LinkKind
	Destination string
}

// Heading is an ATX or setext heading with its plain text.
type Heading struct {
	Level int
	Text  string
}
