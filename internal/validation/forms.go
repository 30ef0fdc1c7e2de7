package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/booking-directory/internal/model"
)

// Flag is a checkbox value.  "y", "yes", "on", "true" and "1" are true;
// anything else, including an absent field, is false.
type Flag bool

// UnmarshalParam implements echo.BindUnmarshaler for form and query values.
func (f *Flag) UnmarshalParam(s string) error {
	*f = Flag(parseFlag(s))
	return nil
}

// UnmarshalJSON accepts JSON booleans as well as the form spellings.
func (f *Flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = Flag(t)
	case string:
		*f = Flag(parseFlag(t))
	case float64:
		*f = t != 0
	case nil:
		*f = false
	default:
		return fmt.Errorf("invalid flag %s", string(b))
	}
	return nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "on", "true", "1":
		return true
	}
	return false
}

// VenueForm is the venue create/edit form.
type VenueForm struct {
	Name               string   `form:"name" json:"name" validate:"required,max=120"`
	City               string   `form:"city" json:"city" validate:"required,max=120"`
	State              string   `form:"state" json:"state" validate:"required,us_state"`
	Address            string   `form:"address" json:"address" validate:"required,max=120"`
	Phone              string   `form:"phone" json:"phone" validate:"max=120"`
	ImageLink          string   `form:"image_link" json:"image_link" validate:"omitempty,url,max=500"`
	Genres             []string `form:"genres" json:"genres" validate:"min=1,dive,genre"`
	FacebookLink       string   `form:"facebook_link" json:"facebook_link" validate:"omitempty,url,max=500"`
	WebsiteLink        string   `form:"website_link" json:"website_link" validate:"omitempty,url,max=500"`
	SeekingTalent      Flag     `form:"seeking_talent" json:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description" json:"seeking_description" validate:"max=500"`
}

// Validate trims the submitted values and checks them.  It returns Errors
// when a rule fails.
func (f *VenueForm) Validate() error {
	trim(&f.Name, &f.City, &f.State, &f.Address, &f.Phone, &f.ImageLink,
		&f.FacebookLink, &f.WebsiteLink, &f.SeekingDescription)
	f.State = strings.ToUpper(f.State)
	f.Genres = model.NormalizeGenres(f.Genres)
	return check(f)
}

// Venue converts the form into a venue record.
func (f VenueForm) Venue() model.Venue {
	return model.Venue{
		Name:               f.Name,
		Address:            f.Address,
		City:               f.City,
		State:              f.State,
		Phone:              f.Phone,
		WebsiteLink:        f.WebsiteLink,
		FacebookLink:       f.FacebookLink,
		ImageLink:          f.ImageLink,
		SeekingTalent:      bool(f.SeekingTalent),
		SeekingDescription: f.SeekingDescription,
		Genres:             model.NormalizeGenres(f.Genres),
	}
}

// VenueFormFrom prefills the edit form from a stored venue.
func VenueFormFrom(v model.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		ImageLink:          v.ImageLink,
		Genres:             []string(v.Genres),
		FacebookLink:       v.FacebookLink,
		WebsiteLink:        v.WebsiteLink,
		SeekingTalent:      Flag(v.SeekingTalent),
		SeekingDescription: v.SeekingDescription,
	}
}

// ArtistForm is the artist create/edit form.
type ArtistForm struct {
	Name               string   `form:"name" json:"name" validate:"required,max=120"`
	City               string   `form:"city" json:"city" validate:"required,max=120"`
	State              string   `form:"state" json:"state" validate:"required,us_state"`
	Phone              string   `form:"phone" json:"phone" validate:"max=120"`
	ImageLink          string   `form:"image_link" json:"image_link" validate:"omitempty,url,max=500"`
	Genres             []string `form:"genres" json:"genres" validate:"min=1,dive,genre"`
	FacebookLink       string   `form:"facebook_link" json:"facebook_link" validate:"omitempty,url,max=500"`
	WebsiteLink        string   `form:"website_link" json:"website_link" validate:"omitempty,url,max=500"`
	SeekingVenue       Flag     `form:"seeking_venue" json:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description" json:"seeking_description" validate:"max=500"`
}

// Validate trims the submitted values and checks them.
func (f *ArtistForm) Validate() error {
	trim(&f.Name, &f.City, &f.State, &f.Phone, &f.ImageLink,
		&f.FacebookLink, &f.WebsiteLink, &f.SeekingDescription)
	f.State = strings.ToUpper(f.State)
	f.Genres = model.NormalizeGenres(f.Genres)
	return check(f)
}

// Artist converts the form into an artist record.
func (f ArtistForm) Artist() model.Artist {
	return model.Artist{
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Phone:              f.Phone,
		Genres:             model.NormalizeGenres(f.Genres),
		ImageLink:          f.ImageLink,
		WebsiteLink:        f.WebsiteLink,
		FacebookLink:       f.FacebookLink,
		SeekingVenue:       bool(f.SeekingVenue),
		SeekingDescription: f.SeekingDescription,
	}
}

// ArtistFormFrom prefills the edit form from a stored artist.
func ArtistFormFrom(a model.Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		ImageLink:          a.ImageLink,
		Genres:             []string(a.Genres),
		FacebookLink:       a.FacebookLink,
		WebsiteLink:        a.WebsiteLink,
		SeekingVenue:       Flag(a.SeekingVenue),
		SeekingDescription: a.SeekingDescription,
	}
}

// startTimeLayouts are the accepted spellings of a show start time.  Values
// without a zone are read as UTC.
var startTimeLayouts = []string{
	time.RFC3339,
	model.StartTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseStartTime parses s using the accepted start time layouts.
func ParseStartTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range startTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised start time %q", s)
}

// ShowForm is the show create form.  Only presence and format are checked;
// whether the venue and artist exist is left to the store.
type ShowForm struct {
	ArtistID  string `form:"artist_id" json:"artist_id" validate:"required,number"`
	VenueID   string `form:"venue_id" json:"venue_id" validate:"required,number"`
	StartTime string `form:"start_time" json:"start_time" validate:"required"`
}

// NewShowForm returns the blank form with the start time set to now.
func NewShowForm(now time.Time) ShowForm {
	return ShowForm{StartTime: now.UTC().Format(model.StartTimeLayout)}
}

// Show validates the form and converts it into a show record.
func (f *ShowForm) Show() (model.Show, error) {
	trim(&f.ArtistID, &f.VenueID, &f.StartTime)
	if err := check(f); err != nil {
		return model.Show{}, err
	}
	var errs Errors
	artistID, err := strconv.ParseUint(f.ArtistID, 10, 64)
	if err != nil || artistID == 0 {
		errs = append(errs, FieldError{Field: humanize("artist_id"), Message: "must be a positive integer"})
	}
	venueID, err := strconv.ParseUint(f.VenueID, 10, 64)
	if err != nil || venueID == 0 {
		errs = append(errs, FieldError{Field: humanize("venue_id"), Message: "must be a positive integer"})
	}
	start, err := ParseStartTime(f.StartTime)
	if err != nil {
		errs = append(errs, FieldError{Field: humanize("start_time"), Message: "must be a date and time like 2006-01-02 15:04:05"})
	}
	if len(errs) > 0 {
		return model.Show{}, errs
	}
	return model.Show{VenueID: venueID, ArtistID: artistID, StartTime: start}, nil
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
