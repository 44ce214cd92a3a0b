// Package forms declares the five prompted-completion forms the service
// hosts: their fields, limits, templates and generation settings.
package forms

import (
	"github.com/katakuxiko/promptforms/internal/gate"
	"github.com/katakuxiko/promptforms/internal/prompt"
	"github.com/katakuxiko/promptforms/internal/textsplit"
)

type FieldKind int

const (
	FieldLine FieldKind = iota
	FieldTextarea
	FieldFile
	FieldChoice
)

func (k FieldKind) String() string {
	switch k {
	case FieldTextarea:
		return "textarea"
	case FieldFile:
		return "file"
	case FieldChoice:
		return "choice"
	default:
		return "line"
	}
}

type Field struct {
	Name        string
	Label       string
	Placeholder string
	Kind        FieldKind
	Choices     []string
}

// Chunking turns a form into a map-reduce summarizer.
type Chunking struct {
	Splitter *textsplit.Splitter
	Map      *prompt.Template
	Combine  *prompt.Template
}

type Form struct {
	ID            string
	Title         string
	Description   string
	ResultHeading string
	Fields        []Field
	// InputField names the free-text field the word ceiling applies to.
	InputField  string
	MaxWords    int
	Template    *prompt.Template
	Temperature float32
	MaxTokens   int
	Chunking    *Chunking
}

// Field returns the field with the given name.
func (f *Form) Field(name string) (Field, bool) {
	for _, fl := range f.Fields {
		if fl.Name == name {
			return fl, true
		}
	}
	return Field{}, false
}

// HasFile reports whether the form takes an upload.
func (f *Form) HasFile() bool {
	for _, fl := range f.Fields {
		if fl.Kind == FieldFile {
			return true
		}
	}
	return false
}

// Validate runs the precondition gate and checks selector values. A
// missing selector value falls back to its first choice.
func (f *Form) Validate(values map[string]string, cred *gate.Credential, credentialPrefix string) error {
	lim := gate.Limits{MaxWords: f.MaxWords, CredentialPrefix: credentialPrefix}
	if err := gate.Check(values[f.InputField], cred, lim); err != nil {
		return err
	}
	for _, fl := range f.Fields {
		if fl.Kind != FieldChoice {
			continue
		}
		if values[fl.Name] == "" {
			values[fl.Name] = fl.Choices[0]
		}
		if err := gate.CheckChoice(fl.Name, values[fl.Name], fl.Choices); err != nil {
			return err
		}
	}
	return nil
}

var (
	Tones    = []string{"Formal", "Informal"}
	Dialects = []string{"American", "British"}
)

// CredentialPlaceholder is the hint shown in the masked key field.
const CredentialPlaceholder = "Ex: sk-2twmA8tfCb8un4..."

var registry = []*Form{
	{
		ID:            "rewrite",
		Title:         "Re-write your text",
		Description:   "Re-write your text in different styles.",
		ResultHeading: "Your Re-written text:",
		Fields: []Field{
			{Name: "draft", Label: "Enter the text you want to re-write", Placeholder: "Your Text...", Kind: FieldTextarea},
			{Name: "tone", Label: "Which tone would you like your redaction to have?", Kind: FieldChoice, Choices: Tones},
			{Name: "dialect", Label: "Which English Dialect would you like?", Kind: FieldChoice, Choices: Dialects},
		},
		InputField:  "draft",
		MaxWords:    gate.MaxWordsText,
		Template:    prompt.Rewrite,
		Temperature: 0.7,
		MaxTokens:   256,
	},
	{
		ID:            "blog-post",
		Title:         "Blog Post Generator",
		Description:   "Generate a 400-word blog post about a topic.",
		ResultHeading: "Your blog post:",
		Fields: []Field{
			{Name: "topic", Label: "Enter topic:", Kind: FieldLine},
		},
		InputField:  "topic",
		MaxWords:    gate.MaxWordsText,
		Template:    prompt.BlogPost,
		Temperature: 0.7,
		MaxTokens:   2048,
	},
	{
		ID:            "long-summary",
		Title:         "AI Long Text Summarizer",
		Description:   "Summarize a long plain-text file, chunk by chunk.",
		ResultHeading: "Here is your Summary:",
		Fields: []Field{
			{Name: "file", Label: "Upload the text file you want to summarize", Kind: FieldFile},
		},
		InputField:  "file",
		MaxWords:    gate.MaxWordsFile,
		Temperature: 0,
		MaxTokens:   256,
		Chunking: &Chunking{
			Splitter: mustSplitter(5000, 350, "\n\n", "\n"),
			Map:      prompt.ChunkSummary,
			Combine:  prompt.CombineSummary,
		},
	},
	{
		ID:            "summary",
		Title:         "Writing Text Summarization",
		Description:   "Summarize a piece of text.",
		ResultHeading: "Summary:",
		Fields: []Field{
			{Name: "text", Label: "Enter your text", Kind: FieldTextarea},
		},
		InputField:  "text",
		MaxWords:    gate.MaxWordsText,
		Temperature: 0,
		MaxTokens:   256,
		Chunking: &Chunking{
			Splitter: mustSplitter(4000, 200, "\n\n"),
			Map:      prompt.ChunkSummary,
			Combine:  prompt.CombineSummary,
		},
	},
	{
		ID:            "review-extract",
		Title:         "Extract Key Information from Product Reviews",
		Description:   "Extract sentiment, delivery time and price perception from a product review.",
		ResultHeading: "Key Data Extracted:",
		Fields: []Field{
			{Name: "review", Label: "Enter the product review", Placeholder: "Your Product Review...", Kind: FieldTextarea},
		},
		InputField:  "review",
		MaxWords:    gate.MaxWordsText,
		Template:    prompt.ReviewExtract,
		Temperature: 0,
		MaxTokens:   256,
	},
}

// All returns the forms in display order.
func All() []*Form {
	out := make([]*Form, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a form by id.
func Lookup(id string) (*Form, bool) {
	for _, f := range registry {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

func mustSplitter(size, overlap int, separators ...string) *textsplit.Splitter {
	s, err := textsplit.New(size, overlap, separators...)
	if err != nil {
		panic(err)
	}
	return s
}
