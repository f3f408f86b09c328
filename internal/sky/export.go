package sky

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/litescript/antikythera/internal/astro"
)

// FrameExport is the JSON-serializable representation of a frame.
// Angles are in degrees.
type FrameExport struct {
	Epoch     float64      `json:"epoch"`
	Time      time.Time    `json:"time"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	LST       float64      `json:"local_sidereal_time"`
	Bodies    []BodyExport `json:"bodies"`
}

// BodyExport is a JSON-friendly body position. Undefined coordinates are
// null.
type BodyExport struct {
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	DistanceAU   float64  `json:"distance_au"`
	DistanceKm   float64  `json:"distance_km"`
	LightTime    float64  `json:"light_time_s"`
	EclipticLon  *float64 `json:"ecliptic_lon"`
	EclipticLat  *float64 `json:"ecliptic_lat"`
	Elongation   *float64 `json:"elongation"`
	RA           *float64 `json:"ra"`
	Dec          *float64 `json:"dec"`
	Altitude     *float64 `json:"altitude"`
	Azimuth      *float64 `json:"azimuth"`
	Visible      bool     `json:"visible"`
	Illumination *float64 `json:"illumination,omitempty"`
}

// Export converts a frame to its exportable form.
func Export(f Frame) *FrameExport {
	export := &FrameExport{
		Epoch:     f.Epoch,
		Time:      f.Time(),
		Latitude:  astro.RadToDeg(f.Observer.Lat),
		Longitude: astro.RadToDeg(f.Observer.Lon),
		LST:       astro.RadToDeg(f.LST),
		Bodies:    make([]BodyExport, 0, len(f.Bodies)),
	}

	for _, b := range f.Bodies {
		var lon, lat *float64
		if b.Ecliptic.Norm() > 0 {
			lon = degrees(astro.EclipticLongitude(b.Ecliptic))
			lat = degrees(astro.EclipticLatitude(b.Ecliptic))
		}
		export.Bodies = append(export.Bodies, BodyExport{
			Name:         b.Name,
			Kind:         kindName(b),
			DistanceAU:   b.Distance,
			DistanceKm:   astro.AUToKm(b.Distance),
			LightTime:    astro.LightTimeFromAU(b.Distance),
			EclipticLon:  lon,
			EclipticLat:  lat,
			Elongation:   degrees(b.Elongation),
			RA:           degrees(b.Equatorial.RA),
			Dec:          degrees(b.Equatorial.Dec),
			Altitude:     degrees(b.Horizontal.Alt),
			Azimuth:      degrees(b.Horizontal.Az),
			Visible:      b.Visible,
			Illumination: finite(b.Illumination),
		})
	}
	return export
}

// WriteJSON writes the export as JSON to the given writer.
func (e *FrameExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

func kindName(b BodyPosition) string {
	if b.Name == "Sun" {
		return "sun"
	}
	return b.Kind.String()
}

func degrees(rad float64) *float64 {
	return finite(astro.RadToDeg(rad))
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// WriteSummaryTable writes a text table of the frame to the given writer.
func WriteSummaryTable(w io.Writer, f Frame) {
	fmt.Fprintf(w, "Sky @ %s  lat %+.2f°  lon %+.2f°  LST %s\n",
		f.Time().Format(time.RFC3339),
		astro.RadToDeg(f.Observer.Lat),
		astro.RadToDeg(f.Observer.Lon),
		FormatHours(f.LST))
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if len(f.Bodies) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	// Header
	fmt.Fprintf(w, "%-8s %-10s %-10s %8s %8s %10s %-7s\n",
		"Body", "RA", "Dec", "Alt", "Az", "Dist(AU)", "Sky")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	// Rows
	for _, b := range f.Bodies {
		sky := "below"
		if b.Visible {
			sky = "up"
		}
		if !b.Horizontal.Defined() {
			sky = "-"
		}
		fmt.Fprintf(w, "%-8s %-10s %-10s %8s %8s %10.4f %-7s\n",
			truncateStr(b.Name, 8),
			FormatHours(b.Equatorial.RA),
			FormatDegrees(b.Equatorial.Dec),
			formatAngle(b.Horizontal.Alt),
			formatAngle(b.Horizontal.Az),
			b.Distance,
			sky,
		)
	}

	if moon, ok := f.Body("Moon"); ok && !math.IsNaN(moon.Illumination) {
		fmt.Fprintf(w, "\nMoon %.0f%% illuminated\n", moon.Illumination*100)
	}
	fmt.Fprintf(w, "\nVisible: %d of %d bodies\n", f.VisibleCount(), len(f.Bodies))
}

// FormatHours formats an angle in radians as hours and minutes.
func FormatHours(rad float64) string {
	if math.IsNaN(rad) {
		return "-"
	}
	minutes := int(math.Round(astro.RadToDeg(astro.NormalizeAngle(rad))*4)) % (24 * 60)
	return fmt.Sprintf("%02dh%02dm", minutes/60, minutes%60)
}

// FormatDegrees formats an angle in radians as signed degrees and arcminutes.
func FormatDegrees(rad float64) string {
	if math.IsNaN(rad) {
		return "-"
	}
	arcmin := int(math.Round(astro.RadToDeg(rad) * 60))
	sign := "+"
	if arcmin < 0 {
		sign = "-"
		arcmin = -arcmin
	}
	return fmt.Sprintf("%s%02d°%02d'", sign, arcmin/60, arcmin%60)
}

func formatAngle(rad float64) string {
	if math.IsNaN(rad) {
		return "-"
	}
	return fmt.Sprintf("%.1f°", astro.RadToDeg(rad))
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
