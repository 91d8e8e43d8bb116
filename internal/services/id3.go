// ID3v2 [TagWriter] implementation
package services

import (
	"fmt"
	"os"

	"github.com/bogem/id3v2/v2"
)

// ID3Writer implements [TagWriter] for mp3 files.
type ID3Writer struct{}

// NewID3Writer creates an ID3 tag writer.
func NewID3Writer() *ID3Writer {
	return &ID3Writer{}
}

// WriteTags sets title, artist and album on the file at path and embeds tags.CoverPath as front cover.
//
// Existing frames are parsed and kept. The file is left untouched when the cover can not be read.
func (w *ID3Writer) WriteTags(path string, tags Tags) error {
	var cover []byte
	if tags.CoverPath != "" {
		data, err := os.ReadFile(tags.CoverPath)
		if err != nil {
			return fmt.Errorf("failed to read cover: %w", err)
		}
		cover = data
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open tag: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(tags.Title)
	tag.SetArtist(tags.Artist)
	tag.SetAlbum(tags.Album)

	if cover != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tag: %w", err)
	}
	return nil
}
