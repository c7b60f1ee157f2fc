package organizer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"

	"presser/internal/fileutil"
	"presser/internal/logging"
	"presser/internal/services"
)

// nameSeparator joins parent and child base names when a nesting artifact is
// collapsed.
const nameSeparator = "-"

// Organizer repairs path-corruption artifacts in downloaded album folders and
// relocates them into the destination root.
type Organizer struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Organizer {
	return &Organizer{logger: logging.NewComponentLogger(logger, "organizer")}
}

// Normalize collapses chains of degenerate single-subfolder directories. A
// title containing a path separator makes the download tool create nested
// folders instead of one; each level is folded into a single folder whose name
// joins the parent and child base names. The returned path is the folder's
// final location, which differs from the input whenever a repair happened.
//
// Every relocation is a rename into a name verified to be free, so content is
// never merged into an existing folder.
func (o *Organizer) Normalize(folder string) (string, error) {
	current := folder
	for {
		entries, err := os.ReadDir(current)
		if err != nil {
			return "", services.Wrap(services.ErrExternalTool, "normalize", "read dir", current, err)
		}
		if len(entries) != 1 || !entries[0].IsDir() {
			return current, nil
		}

		child := filepath.Join(current, entries[0].Name())
		combined := norm.NFC.String(filepath.Base(current) + nameSeparator + entries[0].Name())
		target, err := freePath(filepath.Dir(current), combined)
		if err != nil {
			return "", err
		}

		if err := os.Rename(child, target); err != nil {
			return "", services.Wrap(services.ErrExternalTool, "normalize", "rename", child, err)
		}
		if err := os.Remove(current); err != nil {
			// The vacated parent must be empty at this point; anything else
			// means the rename above did not do what we think it did.
			return "", services.Wrap(services.ErrExternalTool, "normalize", "remove empty parent", current, err)
		}

		o.logger.Info("collapsed nested folder",
			logging.String("from", child),
			logging.String("to", target))
		current = target
	}
}

// Relocate moves the album folder into the destination root, creating the
// root if needed. The destination must not already contain a folder of the
// same name; the caller decides whether an existing destination means resume
// or error.
func (o *Organizer) Relocate(folder, destinationRoot string) (string, error) {
	if err := os.MkdirAll(destinationRoot, 0o755); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "relocate", "create destination", destinationRoot, err)
	}
	target := filepath.Join(destinationRoot, filepath.Base(folder))
	if fileutil.Exists(target) {
		return "", services.Wrap(services.ErrValidation, "relocate", "destination occupied", target, nil)
	}
	if err := fileutil.MoveDir(folder, target); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "relocate", "move", folder, err)
	}
	o.logger.Info("album relocated", logging.String("path", target))
	return target, nil
}

// freePath returns dir/name, or the first dir/name-N (N >= 2) not yet taken.
func freePath(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	if !fileutil.Exists(candidate) {
		return candidate, nil
	}
	for i := 2; i < 1000; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s%s%d", name, nameSeparator, i))
		if !fileutil.Exists(candidate) {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "normalize", "free path", "no free name for "+name, nil)
}
