package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const guideURI = "trilium://guide/search-syntax"

const searchSyntaxGuide = `# Searching notes

search_notes compiles its arguments into the Trilium search language.

## Fulltext

{"text": "kubernetes"} matches titles and bodies. Text alone runs as a
fast search; adding criteria or a limit switches to a full search.

## Criteria

Each criterion has property, type, op, value, and logic. Criteria are
joined left to right: AND by juxtaposition, consecutive OR criteria as
one parenthesized group.

Types:
- label: user attribute, emitted as #name. exists/not_exists test
  presence (#name, #!name); other ops compare the value.
- relation: link to another note, emitted as ~name. Comparisons need a
  dotted path into the target note, e.g. author.title.
- noteProperty: built-in field, emitted as note.name. Scalar roots:
  title, content, type, mime, isArchived, isProtected, dateCreated,
  dateModified, labelCount, ownedLabelCount, attributeCount,
  relationCount, parentCount, childrenCount, contentSize,
  revisionCount. Navigation: parents.title, parents.noteId,
  children.title, children.noteId, ancestors.title, ancestors.noteId,
  parents.parents.*, children.children.*.
- fulltext: a bare term inside the expression.

Ops: exists, not_exists, =, !=, >, <, >=, <=, contains, starts_with,
ends_with, regex.

## Values

- Strings are quoted automatically. A value containing both ' and "
  cannot be expressed and is rejected.
- Date properties (dateCreated, dateModified) take ISO-8601 only:
  2024-12-13 or a full timestamp with zone. Relative forms like
  TODAY-7 are rejected.
- Boolean properties take true/false; numeric properties take numeric
  literals.

## Examples

- {"searchCriteria":[{"property":"book","type":"label","op":"exists"}]}
    -> #book
- {"searchCriteria":[{"property":"author.title","type":"relation","op":"contains","value":"Tolkien"}]}
    -> ~author.title *=* 'Tolkien'
- {"searchCriteria":[{"property":"template.title","type":"relation","op":"=","value":"Grid View","logic":"OR"},{"property":"dateCreated","type":"noteProperty","op":">=","value":"2024-12-13"}]}
    -> ~(~template.title = 'Grid View' OR note.dateCreated >= '2024-12-13')

## Write safety

get_note returns a contentHash. update_note and append_note require it
as expectedHash and refuse the write with a conflict error when the
note changed in between; re-fetch and retry. create_note reports
same-titled siblings under the target parent instead of writing unless
forceCreate is set.`

func registerResources(m *server.MCPServer) {
	guide := mcplib.NewResource(guideURI, "Search syntax guide",
		mcplib.WithResourceDescription("How to drive search_notes: criteria model, operators, quoting, date rules, write safety."),
		mcplib.WithMIMEType("text/markdown"),
	)
	m.AddResource(guide, func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      guideURI,
				MIMEType: "text/markdown",
				Text:     searchSyntaxGuide,
			},
		}, nil
	})
}
