package service

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/survival-companion/backend-go/internal/models"
)

const gpxCreator = "survival-companion"

type gpxDocument struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`
	Xmlns   string   `xml:"xmlns,attr"`
	Track   gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name    string     `xml:"name"`
	Segment gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat       float64   `xml:"lat,attr"`
	Lon       float64   `xml:"lon,attr"`
	Elevation float64   `xml:"ele"`
	Time      time.Time `xml:"time"`
}

// encodeGPX renders a trail as a GPX 1.1 document with a single track segment
func encodeGPX(trail models.Trail) ([]byte, error) {
	doc := gpxDocument{
		Version: "1.1",
		Creator: gpxCreator,
		Xmlns:   "http://www.topografix.com/GPX/1/1",
		Track: gpxTrack{
			Name:    trail.Name,
			Segment: gpxSegment{Points: make([]gpxPoint, 0, len(trail.Points))},
		},
	}
	for _, p := range trail.Points {
		doc.Track.Segment.Points = append(doc.Track.Segment.Points, gpxPoint{
			Lat:       p.Latitude,
			Lon:       p.Longitude,
			Elevation: p.Altitude,
			Time:      p.Timestamp.UTC(),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode GPX: %w", err)
	}
	return buf.Bytes(), nil
}
