package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
)

func TestID3Writer(t *testing.T) {
	t.Run("writes text frames and cover", func(t *testing.T) {
		dir := t.TempDir()
		audio := filepath.Join(dir, "song.mp3")
		cover := filepath.Join(dir, "cover.jpg")
		if err := os.WriteFile(audio, nil, 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(cover, []byte{0xFF, 0xD8, 0xFF, 0xD9}, 0644); err != nil {
			t.Fatal(err)
		}

		err := NewID3Writer().WriteTags(audio, Tags{Title: "Song A", Artist: "Band X", Album: "Album", CoverPath: cover})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tag, err := id3v2.Open(audio, id3v2.Options{Parse: true})
		if err != nil {
			t.Fatalf("failed to reopen tag: %v", err)
		}
		defer tag.Close()

		if tag.Title() != "Song A" || tag.Artist() != "Band X" || tag.Album() != "Album" {
			t.Errorf("unexpected tags: title=%q artist=%q album=%q", tag.Title(), tag.Artist(), tag.Album())
		}

		pictures := tag.GetFrames(tag.CommonID("Attached picture"))
		if len(pictures) != 1 {
			t.Fatalf("expected 1 attached picture, got %d", len(pictures))
		}
		pic, ok := pictures[0].(id3v2.PictureFrame)
		if !ok {
			t.Fatalf("expected PictureFrame, got %T", pictures[0])
		}
		if pic.MimeType != "image/jpeg" || pic.PictureType != id3v2.PTFrontCover || pic.Description != "Cover" {
			t.Errorf("unexpected picture frame: %+v", pic)
		}
	})

	t.Run("missing cover fails before touching the file", func(t *testing.T) {
		dir := t.TempDir()
		audio := filepath.Join(dir, "song.mp3")
		if err := os.WriteFile(audio, nil, 0644); err != nil {
			t.Fatal(err)
		}

		err := NewID3Writer().WriteTags(audio, Tags{Title: "x", CoverPath: filepath.Join(dir, "nope.jpg")})
		if err == nil {
			t.Fatal("expected error for missing cover")
		}

		if info, _ := os.Stat(audio); info.Size() != 0 {
			t.Error("expected audio file to be untouched")
		}
	})
}
