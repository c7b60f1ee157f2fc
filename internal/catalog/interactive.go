package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// clearToken empties an optional field instead of keeping its default.
const clearToken = "-"

// Resolve is the pure default/override rule every prompt funnels through:
// empty input keeps the derived default, the clear token empties the field,
// anything else replaces it. Having one function here keeps interactive and
// automatic mode derivations identical.
func Resolve(def, input string) string {
	input = strings.TrimSpace(input)
	switch input {
	case "":
		return def
	case clearToken:
		return ""
	default:
		return input
	}
}

// Editor walks a Submission field by field, offering each derived value as an
// editable default. Input and output are injected so tests drive it with
// buffers.
type Editor struct {
	in  *bufio.Reader
	out io.Writer
}

func NewEditor(in io.Reader, out io.Writer) *Editor {
	return &Editor{in: bufio.NewReader(in), out: out}
}

// Edit mutates sub in place. Required fields re-prompt while empty; optional
// fields accept the clear token. The release type is chosen from the fixed
// menu with re-prompting on invalid input.
func (e *Editor) Edit(sub *Submission) error {
	var err error
	if sub.Artist, err = e.required("Artist", sub.Artist); err != nil {
		return err
	}
	if sub.Title, err = e.required("Title", sub.Title); err != nil {
		return err
	}
	if sub.Year, err = e.optional("Year", sub.Year); err != nil {
		return err
	}
	if sub.ReleaseType, err = e.releaseType(sub.ReleaseType); err != nil {
		return err
	}
	if sub.RemasterYear, err = e.optional("Edition year", sub.RemasterYear); err != nil {
		return err
	}
	if sub.RemasterTitle, err = e.optional("Edition title", sub.RemasterTitle); err != nil {
		return err
	}
	if sub.RemasterLabel, err = e.optional("Record label", sub.RemasterLabel); err != nil {
		return err
	}
	if sub.RemasterCatalogue, err = e.optional("Catalogue number", sub.RemasterCatalogue); err != nil {
		return err
	}
	if sub.Tags, err = e.optional("Tags", sub.Tags); err != nil {
		return err
	}
	if sub.ImageURL, err = e.optional("Cover image URL", sub.ImageURL); err != nil {
		return err
	}
	if sub.AlbumDescription, err = e.multiline("Album description", sub.AlbumDescription); err != nil {
		return err
	}
	if sub.ReleaseDescription, err = e.multiline("Release description", sub.ReleaseDescription); err != nil {
		return err
	}

	attach, err := e.yesNo("Attach to an existing torrent group?", false)
	if err != nil {
		return err
	}
	if attach {
		if sub.GroupID, err = e.required("Group ID", sub.GroupID); err != nil {
			return err
		}
	} else {
		sub.GroupID = ""
	}
	return nil
}

func (e *Editor) readLine(prompt string) (string, error) {
	fmt.Fprint(e.out, prompt)
	line, err := e.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (e *Editor) optional(label, def string) (string, error) {
	input, err := e.readLine(fmt.Sprintf("%s [%s] (%s clears): ", label, def, clearToken))
	if err != nil {
		return "", err
	}
	return Resolve(def, input), nil
}

func (e *Editor) required(label, def string) (string, error) {
	for {
		input, err := e.readLine(fmt.Sprintf("%s [%s]: ", label, def))
		if err != nil {
			return "", err
		}
		if value := Resolve(def, input); value != "" {
			return value, nil
		}
		fmt.Fprintf(e.out, "%s is required.\n", label)
	}
}

// releaseType shows the fixed menu and re-prompts on anything that is not a
// valid code; the derived guess is the default.
func (e *Editor) releaseType(def ReleaseType) (ReleaseType, error) {
	for _, rt := range ReleaseTypes {
		fmt.Fprintf(e.out, "  %2d  %s\n", int(rt), rt)
	}
	for {
		input, err := e.readLine(fmt.Sprintf("Release type [%d %s]: ", int(def), def))
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(input) == "" {
			return def, nil
		}
		code, convErr := strconv.Atoi(strings.TrimSpace(input))
		if convErr == nil {
			if rt := ReleaseType(code); rt.Valid() {
				return rt, nil
			}
		}
		fmt.Fprintln(e.out, "Enter one of the listed numbers.")
	}
}

// multiline shows the current value and offers accept/clear/rewrite. A
// rewrite reads lines until a lone ".".
func (e *Editor) multiline(label, def string) (string, error) {
	fmt.Fprintf(e.out, "%s:\n%s\n", label, def)
	for {
		input, err := e.readLine("[a]ccept / [c]lear / [r]ewrite: ")
		if err != nil {
			return "", err
		}
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "a", "":
			return def, nil
		case "c":
			return "", nil
		case "r":
			return e.readBlock()
		}
		fmt.Fprintln(e.out, "Enter a, c, or r.")
	}
}

func (e *Editor) readBlock() (string, error) {
	fmt.Fprintln(e.out, "Enter text, finish with a single '.' line:")
	var lines []string
	for {
		line, err := e.readLine("")
		if err != nil {
			return "", err
		}
		if line == "." {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
	}
}

func (e *Editor) yesNo(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		input, err := e.readLine(fmt.Sprintf("%s [%s]: ", label, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(e.out, "Enter y or n.")
	}
}
