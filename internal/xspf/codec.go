// Package xspf reads and writes XSPF playlists and owns where they go on
// disk: target path claims, atomic saves and purging stale playlists.
package xspf

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Namespace is the XSPF version 1 namespace.
const Namespace = "http://xspf.org/ns/0/"

// Playlist is an ordered list of track locations. Path is where the
// playlist lives on disk; it is not part of the document.
type Playlist struct {
	Title  string
	Path   string
	Tracks []string
}

type document struct {
	XMLName   xml.Name  `xml:"playlist"`
	Version   string    `xml:"version,attr"`
	Xmlns     string    `xml:"xmlns,attr,omitempty"`
	Title     string    `xml:"title,omitempty"`
	TrackList trackList `xml:"trackList"`
}

type trackList struct {
	Tracks []track `xml:"track"`
}

type track struct {
	Location string `xml:"location"`
}

// Encode writes pl as an indented XSPF document.
func Encode(w io.Writer, pl *Playlist) error {
	doc := document{
		Version: "1",
		Xmlns:   Namespace,
		Title:   pl.Title,
	}
	doc.TrackList.Tracks = make([]track, len(pl.Tracks))
	for i, t := range pl.Tracks {
		doc.TrackList.Tracks[i] = track{Location: t}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode xspf: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Decode parses an XSPF document. Documents without the XSPF namespace are
// accepted; tracks without a location are skipped.
func Decode(r io.Reader) (*Playlist, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode xspf: %w", err)
	}
	pl := &Playlist{Title: strings.TrimSpace(doc.Title)}
	for _, t := range doc.TrackList.Tracks {
		loc := strings.TrimSpace(t.Location)
		if loc == "" {
			continue
		}
		pl.Tracks = append(pl.Tracks, loc)
	}
	return pl, nil
}
