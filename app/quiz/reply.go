package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Semior001/feedquiz/app/store"
)

var (
	// ErrMalformedReply is returned when the reply can't be decoded.
	ErrMalformedReply = errors.New("malformed reply")
	// ErrMissingField is returned when the reply lacks question, options or answer.
	ErrMissingField = errors.New("missing required field")
)

// Reply is a response of a text generation backend.
// Implemented by RawText and WrappedContent only.
type Reply interface {
	reply()
}

// RawText is a reply that is the generated text itself.
type RawText string

// WrappedContent is a reply object that carries the generated text
// in its Content field.
type WrappedContent struct {
	Content string
	Model   string
}

func (RawText) reply()        {}
func (WrappedContent) reply() {}

// replyText unwraps the generated text from the reply.
func replyText(r Reply) (string, error) {
	switch r := r.(type) {
	case RawText:
		return string(r), nil
	case WrappedContent:
		return r.Content, nil
	case *WrappedContent:
		if r != nil {
			return r.Content, nil
		}
	}
	return "", fmt.Errorf("%w: unexpected reply type %T", ErrMalformedReply, r)
}

// answer is the question part of MCQ, as generated by the model.
type answer struct {
	Question      string
	Options       map[string]string
	CorrectAnswer string
	Explanation   string
}

func (a answer) mcq(article store.Article) store.MCQ {
	return store.MCQ{
		FeedURL:       article.FeedURL,
		Title:         article.Title,
		Link:          article.Link,
		Description:   article.Description,
		Question:      a.Question,
		Options:       a.Options,
		CorrectAnswer: a.CorrectAnswer,
		Explanation:   a.Explanation,
	}
}

type rawAnswer struct {
	Question      json.RawMessage `json:"question"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer json.RawMessage `json:"correct_answer"`
	Explanation   json.RawMessage `json:"explanation"`
}

// parseAnswer decodes the generated JSON object and normalizes its options
// and correct answer.
func parseAnswer(text string) (answer, error) {
	var raw rawAnswer
	if err := json.Unmarshal([]byte(unfence(text)), &raw); err != nil {
		return answer{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	var res answer

	if err := json.Unmarshal(raw.Question, &res.Question); err != nil || strings.TrimSpace(res.Question) == "" {
		return answer{}, fmt.Errorf("%w: question", ErrMissingField)
	}

	opts, err := parseOptions(raw.Options)
	if err != nil {
		return answer{}, err
	}
	res.Options = opts

	if res.CorrectAnswer, err = parseCorrectAnswer(raw.CorrectAnswer, opts); err != nil {
		return answer{}, err
	}

	res.Explanation = stringify(raw.Explanation)

	return res, nil
}

// unfence trims the text and removes a markdown code fence around it.
func unfence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}

	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	// language tag, e.g. ```json
	if idx := strings.IndexByte(s, '\n'); idx >= 0 && !strings.ContainsAny(s[:idx], "{[") {
		s = s[idx+1:]
	}

	return strings.TrimSpace(s)
}

// parseOptions accepts either an object of label to text, or a list,
// which gets labels "a", "b", "c"... in order.
func parseOptions(raw json.RawMessage) (map[string]string, error) {
	if isNull(raw) {
		return nil, fmt.Errorf("%w: options", ErrMissingField)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		res := make(map[string]string, len(obj))
		for k, v := range obj {
			res[normalizeLabel(k)] = stringify(v)
		}
		if len(res) == 0 {
			return nil, fmt.Errorf("%w: options", ErrMissingField)
		}
		return res, nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: options are neither an object nor a list", ErrMalformedReply)
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("%w: options", ErrMissingField)
	}

	res := make(map[string]string, len(list))
	for idx, item := range list {
		label, text := listOption(idx, item)
		res[label] = text
	}

	return res, nil
}

// listOption returns label and text of the idx-th option in a list.
// Items may be plain values, single-key objects like {"a": "text"},
// or objects with "label" and "text" keys.
func listOption(idx int, item json.RawMessage) (label, text string) {
	label = indexLabel(idx)

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err != nil {
		return label, stripLabelPrefix(label, stringify(item))
	}

	if len(obj) == 1 {
		for k, v := range obj {
			return normalizeLabel(k), stringify(v)
		}
	}

	if l, ok := obj["label"]; ok {
		label = normalizeLabel(stringify(l))
	}
	for _, key := range []string{"text", "value", "option"} {
		if v, ok := obj[key]; ok {
			return label, stringify(v)
		}
	}

	return label, stringify(item)
}

var labelPrefixRe = regexp.MustCompile(`^\(?([A-Za-z])[).:]\s*`)

// stripLabelPrefix removes a leading "a) ", "B. " or "(c) " from the option
// text when it matches the option's own label.
func stripLabelPrefix(label, text string) string {
	m := labelPrefixRe.FindStringSubmatchIndex(text)
	if m == nil || strings.ToLower(text[m[2]:m[3]]) != label {
		return text
	}
	return text[m[1]:]
}

// parseCorrectAnswer normalizes the answer to the option label when it
// names one, and keeps it as returned otherwise.
func parseCorrectAnswer(raw json.RawMessage, opts map[string]string) (string, error) {
	if isNull(raw) {
		return "", fmt.Errorf("%w: correct_answer", ErrMissingField)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("%w: correct_answer: %v", ErrMalformedReply, err)
	}

	switch v := v.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", fmt.Errorf("%w: correct_answer", ErrMissingField)
		}
		if l := normalizeLabel(s); hasLabel(opts, l) {
			return l, nil
		}
		if m := labelPrefixRe.FindStringSubmatch(s); m != nil && hasLabel(opts, strings.ToLower(m[1])) {
			return strings.ToLower(m[1]), nil
		}
		return s, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: correct_answer of type %T", ErrMissingField, v)
	}
}

func hasLabel(opts map[string]string, label string) bool {
	_, ok := opts[label]
	return ok
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func indexLabel(idx int) string {
	if idx < 26 {
		return string(rune('a' + idx))
	}
	return strconv.Itoa(idx + 1)
}

// stringify returns JSON strings as is and any other value as compact JSON.
func stringify(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	buf := &bytes.Buffer{}
	if err := json.Compact(buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
