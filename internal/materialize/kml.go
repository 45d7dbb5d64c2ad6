package materialize

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/99ch/phes-search/internal/geo"
)

// kmlDocument mirrors just enough of the KML schema to render one
// placemark per reservoir polygon: no ecosystem KML encoder appeared
// anywhere in the example pack, so this is built directly on
// encoding/xml rather than adopting a library with no grounding.
type kmlDocument struct {
	XMLName xml.Name `xml:"kml"`
	XMLNS   string   `xml:"xmlns,attr"`
	Doc     kmlFolder `xml:"Document"`
}

type kmlFolder struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name    string `xml:"name"`
	Polygon struct {
		OuterBoundary struct {
			LinearRing struct {
				Coordinates string `xml:"coordinates"`
			} `xml:"LinearRing"`
		} `xml:"outerBoundaryIs"`
	} `xml:"Polygon"`
}

// ReservoirKML is one reservoir's identity and outline to render.
type ReservoirKML struct {
	Name    string
	Polygon []geo.GeographicCoordinate
}

// WriteKML renders one placemark per reservoir into w.
func WriteKML(w io.Writer, folderName string, reservoirs []ReservoirKML) error {
	doc := kmlDocument{XMLNS: "http://www.opengis.net/kml/2.2"}
	doc.Doc.Name = folderName
	for _, r := range reservoirs {
		pm := kmlPlacemark{Name: r.Name}
		pm.Polygon.OuterBoundary.LinearRing.Coordinates = coordinatesString(r.Polygon)
		doc.Doc.Placemarks = append(doc.Doc.Placemarks, pm)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(doc)
}

func coordinatesString(polygon []geo.GeographicCoordinate) string {
	var b strings.Builder
	for i, p := range polygon {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%f,%f,0", p.Lon, p.Lat)
	}
	return b.String()
}
