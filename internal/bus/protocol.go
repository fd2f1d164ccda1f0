package bus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wardscribe/voicepanel/internal/clock"
)

// Reply prefixes.
const (
	ReplyOK     = "OK"
	ReplyStatus = "STATUS"
	ReplyErr    = "ERR"
)

// Status is the session summary carried by a STATUS reply.
type Status struct {
	Phase      string
	Elapsed    int
	Format     string
	Transcript string
	Error      string
	Retry      bool
}

func (s Status) String() string {
	return fmt.Sprintf("status=%s elapsed=%s format=%s transcript=%s error=%s retry=%t",
		s.Phase, clock.FormatTime(s.Elapsed), s.Format,
		strconv.Quote(s.Transcript), strconv.Quote(s.Error), s.Retry)
}

func OK(msg string) string {
	if msg == "" {
		return ReplyOK + "\n"
	}
	return ReplyOK + " " + msg + "\n"
}

func Err(msg string) string {
	return ReplyErr + " " + msg + "\n"
}

func StatusLine(s Status) string {
	return ReplyStatus + " " + s.String() + "\n"
}

// Response is a parsed reply line.
type Response struct {
	Kind string
	Body string
}

func (r Response) IsErr() bool {
	return r.Kind == ReplyErr
}

func ParseResponse(line string) (Response, error) {
	line = strings.TrimRight(line, "\r\n")
	kind, body, _ := strings.Cut(line, " ")
	switch kind {
	case ReplyOK, ReplyStatus, ReplyErr:
		return Response{Kind: kind, Body: body}, nil
	}
	return Response{}, fmt.Errorf("malformed reply: %q", line)
}

// ParseFields splits key=value pairs. Values may be Go-quoted strings.
func ParseFields(body string) (map[string]string, error) {
	fields := make(map[string]string)
	rest := strings.TrimSpace(body)
	for rest != "" {
		key, after, ok := strings.Cut(rest, "=")
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("malformed field near %q", rest)
		}

		var value string
		if strings.HasPrefix(after, `"`) {
			quoted, err := strconv.QuotedPrefix(after)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", key, err)
			}
			value, _ = strconv.Unquote(quoted)
			after = after[len(quoted):]
		} else {
			value, after, _ = strings.Cut(after, " ")
		}

		fields[key] = value
		rest = strings.TrimLeft(after, " ")
	}
	return fields, nil
}

// ParseStatus decodes the body of a STATUS reply.
func ParseStatus(body string) (Status, error) {
	fields, err := ParseFields(body)
	if err != nil {
		return Status{}, err
	}

	phase, ok := fields["status"]
	if !ok {
		return Status{}, fmt.Errorf("status reply has no status field")
	}

	s := Status{
		Phase:      phase,
		Format:     fields["format"],
		Transcript: fields["transcript"],
		Error:      fields["error"],
	}
	if v, ok := fields["elapsed"]; ok {
		s.Elapsed, err = parseElapsed(v)
		if err != nil {
			return Status{}, err
		}
	}
	if v, ok := fields["retry"]; ok {
		s.Retry, err = strconv.ParseBool(v)
		if err != nil {
			return Status{}, fmt.Errorf("retry: %w", err)
		}
	}
	return s, nil
}

func parseElapsed(v string) (int, error) {
	mm, ss, ok := strings.Cut(v, ":")
	if !ok {
		return 0, fmt.Errorf("elapsed %q is not MM:SS", v)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("elapsed minutes: %w", err)
	}
	s, err := strconv.Atoi(ss)
	if err != nil || s < 0 || s > 59 {
		return 0, fmt.Errorf("elapsed seconds %q out of range", ss)
	}
	return m*60 + s, nil
}
