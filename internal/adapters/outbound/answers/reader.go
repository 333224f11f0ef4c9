package answers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/testology/psyengine/internal/domain"
)

// ErrInvalidDocument wraps every schema violation.
var ErrInvalidDocument = errors.New("invalid answers document")

// answersSchema accepts either a bare answer array or an object holding the
// array plus optional question texts keyed by question id.
const answersSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "answers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["questionId", "value"],
        "properties": {
          "questionId": {"type": "integer"},
          "value": {"type": "number"}
        }
      }
    },
    "questions": {
      "type": "object",
      "propertyNames": {"pattern": "^[0-9]+$"},
      "additionalProperties": {"type": "string"}
    }
  },
  "oneOf": [
    {"$ref": "#/definitions/answers"},
    {
      "type": "object",
      "required": ["answers"],
      "properties": {
        "answers": {"$ref": "#/definitions/answers"},
        "questions": {"$ref": "#/definitions/questions"}
      }
    }
  ]
}`

const questionsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "propertyNames": {"pattern": "^[0-9]+$"},
  "additionalProperties": {"type": "string"}
}`

var (
	answersLoader   = gojsonschema.NewStringLoader(answersSchema)
	questionsLoader = gojsonschema.NewStringLoader(questionsSchema)
)

// Document is a decoded answers file.
type Document struct {
	Answers   []domain.AnswerInput
	Questions map[int]string
}

// Read decodes an answers document from r.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading answers: %w", err)
	}
	return Parse(data)
}

// Parse validates data against the answers schema and decodes it.
func Parse(data []byte) (*Document, error) {
	if err := validate(answersLoader, data); err != nil {
		return nil, err
	}

	doc := &Document{}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &doc.Answers); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return doc, nil
	}

	var wrapped struct {
		Answers   []domain.AnswerInput `json:"answers"`
		Questions map[string]string    `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc.Answers = wrapped.Answers
	questions, err := questionMap(wrapped.Questions)
	if err != nil {
		return nil, err
	}
	doc.Questions = questions
	return doc, nil
}

// ReadQuestions decodes a question-text file mapping ids to texts.
func ReadQuestions(r io.Reader) (map[int]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading questions: %w", err)
	}
	if err := validate(questionsLoader, data); err != nil {
		return nil, err
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return questionMap(raw)
}

func validate(schema gojsonschema.JSONLoader, data []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(errs, "; "))
	}
	return nil
}

func questionMap(raw map[string]string) (map[int]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[int]string, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%w: question id %q", ErrInvalidDocument, k)
		}
		out[id] = v
	}
	return out, nil
}
