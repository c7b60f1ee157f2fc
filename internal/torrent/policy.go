package torrent

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// sizeBucket maps a total content size upper bound (inclusive) to a piece size.
type sizeBucket struct {
	maxTotal  int64
	pieceSize int64
}

var sizeBuckets = []sizeBucket{
	{50 * mib, 32 * kib},
	{150 * mib, 64 * kib},
	{350 * mib, 128 * kib},
	{512 * mib, 256 * kib},
	{1 * gib, 512 * kib},
	{2 * gib, 1024 * kib},
}

const largestPieceSize = 2048 * kib

// PieceSize maps total content byte size to the torrent piece size. Pure
// function over the fixed bucket table; size zero maps to the smallest bucket.
func PieceSize(totalSize int64) int64 {
	for _, bucket := range sizeBuckets {
		if totalSize <= bucket.maxTotal {
			return bucket.pieceSize
		}
	}
	return largestPieceSize
}
