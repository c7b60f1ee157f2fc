package torrent

import (
	"crypto/sha1"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/bencode"

	"presser/internal/logging"
	"presser/internal/services"
)

// Builder produces private, source-tagged torrent files for album folders.
type Builder struct {
	announceURL string
	sourceTag   string
	logger      *slog.Logger
}

func NewBuilder(announceURL, sourceTag string, logger *slog.Logger) *Builder {
	return &Builder{
		announceURL: announceURL,
		sourceTag:   sourceTag,
		logger:      logging.NewComponentLogger(logger, "torrent"),
	}
}

type fileEntry struct {
	Length int64    `bencode:"length"`
	Path   []string `bencode:"path"`
}

type infoDict struct {
	Name        string      `bencode:"name"`
	PieceLength int64       `bencode:"piece length"`
	Pieces      []byte      `bencode:"pieces"`
	Private     int         `bencode:"private"`
	Source      string      `bencode:"source,omitempty"`
	Files       []fileEntry `bencode:"files"`
}

type metaInfo struct {
	Announce string   `bencode:"announce"`
	Info     infoDict `bencode:"info"`
}

// Build walks the album folder, hashes its content into pieces sized by the
// fixed bucket table, and writes <outputDir>/<folder base>.torrent, replacing
// any previous file of that name. Regenerating over unchanged content
// reproduces identical bytes; no creation date is embedded.
func (b *Builder) Build(folder, outputDir string) (string, error) {
	files, total, err := collectFiles(folder)
	if err != nil {
		return "", services.Wrap(services.ErrTorrentBuild, "torrent", "collect files", folder, err)
	}

	pieceSize := PieceSize(total)
	pieces, err := hashPieces(folder, files, pieceSize)
	if err != nil {
		return "", services.Wrap(services.ErrTorrentBuild, "torrent", "hash pieces", folder, err)
	}

	// Always multi-file mode: the descriptor is scoped to the whole folder
	// even when it holds a single file.
	info := infoDict{
		Name:        filepath.Base(folder),
		PieceLength: pieceSize,
		Pieces:      pieces,
		Private:     1,
		Source:      b.sourceTag,
		Files:       files,
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrTorrentBuild, "torrent", "create output dir", outputDir, err)
	}
	outPath := filepath.Join(outputDir, filepath.Base(folder)+".torrent")

	payload, err := bencode.EncodeBytes(metaInfo{Announce: b.announceURL, Info: info})
	if err != nil {
		return "", services.Wrap(services.ErrTorrentBuild, "torrent", "encode", outPath, err)
	}
	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		return "", services.Wrap(services.ErrTorrentBuild, "torrent", "write", outPath, err)
	}

	b.logger.Info("torrent built",
		logging.String("path", outPath),
		logging.String("total_size", humanize.IBytes(uint64(total))),
		logging.String("piece_size", humanize.IBytes(uint64(pieceSize))))
	return outPath, nil
}

// collectFiles lists every regular file under folder with its size, paths
// relative and split for the bencode files list, in walk (lexical) order.
func collectFiles(folder string) ([]fileEntry, int64, error) {
	var files []fileEntry
	var total int64
	err := filepath.WalkDir(folder, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}
		files = append(files, fileEntry{
			Length: info.Size(),
			Path:   strings.Split(filepath.ToSlash(rel), "/"),
		})
		total += info.Size()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

// hashPieces concatenates all file contents in order and hashes fixed-size
// pieces across file boundaries, as the torrent format requires.
func hashPieces(folder string, files []fileEntry, pieceSize int64) ([]byte, error) {
	var pieces []byte
	buf := make([]byte, 0, pieceSize)
	chunk := make([]byte, 64*1024)

	for _, entry := range files {
		f, err := os.Open(filepath.Join(folder, filepath.Join(entry.Path...)))
		if err != nil {
			return nil, err
		}
		for {
			n, err := f.Read(chunk)
			if n > 0 {
				data := chunk[:n]
				for len(data) > 0 {
					space := int(pieceSize) - len(buf)
					if space > len(data) {
						space = len(data)
					}
					buf = append(buf, data[:space]...)
					data = data[space:]
					if int64(len(buf)) == pieceSize {
						sum := sha1.Sum(buf)
						pieces = append(pieces, sum[:]...)
						buf = buf[:0]
					}
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				f.Close()
				return nil, err
			}
		}
		f.Close()
	}

	if len(buf) > 0 {
		sum := sha1.Sum(buf)
		pieces = append(pieces, sum[:]...)
	}
	return pieces, nil
}
