package crop

import "strings"

// NewCrop carries the caller-supplied fields of a create request.
// Pointer fields distinguish "absent" from a zero value.
type NewCrop struct {
	Name            string   `json:"name"`
	Variety         string   `json:"variety"`
	PlantedDate     *Date    `json:"plantedDate"`
	ExpectedHarvest *Date    `json:"expectedHarvest"`
	Area            *float64 `json:"area"`
	Location        string   `json:"location"`
	Status          Status   `json:"status"`
	HealthStatus    Health   `json:"healthStatus"`
	Progress        *float64 `json:"progress"`
	LastWatered     *Date    `json:"lastWatered"`
	Notes           string   `json:"notes"`
}

// Patch lists the fields an update may change; nil means "keep".
// id, createdAt and updatedAt are not updatable.
type Patch struct {
	Name            *string  `json:"name"`
	Variety         *string  `json:"variety"`
	PlantedDate     *Date    `json:"plantedDate"`
	ExpectedHarvest *Date    `json:"expectedHarvest"`
	Area            *float64 `json:"area"`
	Location        *string  `json:"location"`
	Status          *Status  `json:"status"`
	HealthStatus    *Health  `json:"healthStatus"`
	Progress        *float64 `json:"progress"`
	LastWatered     *Date    `json:"lastWatered"`
	Notes           *string  `json:"notes"`
}

func checkArea(a *float64) error {
	if a != nil && *a <= 0 {
		return invalid("area", "must be positive")
	}
	return nil
}

// build turns the request into a record with defaults applied.
func (in NewCrop) build(id string, today Date) (Crop, error) {
	if err := checkArea(in.Area); err != nil {
		return Crop{}, err
	}

	c := Crop{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		Variety:      strings.TrimSpace(in.Variety),
		Location:     strings.TrimSpace(in.Location),
		Status:       in.Status,
		HealthStatus: in.HealthStatus,
		LastWatered:  today,
		Notes:        in.Notes,
	}
	if in.PlantedDate != nil {
		c.PlantedDate = *in.PlantedDate
	}
	if in.ExpectedHarvest != nil && !in.ExpectedHarvest.IsZero() {
		h := *in.ExpectedHarvest
		c.ExpectedHarvest = &h
	}
	if in.Area != nil {
		c.Area = *in.Area
	}
	if c.Status == "" {
		c.Status = StatusPlanted
	}
	if c.HealthStatus == "" {
		c.HealthStatus = HealthGood
	}
	if in.LastWatered != nil && !in.LastWatered.IsZero() {
		c.LastWatered = *in.LastWatered
	}

	if err := c.validate(); err != nil {
		return Crop{}, err
	}

	switch {
	case c.ExpectedHarvest != nil:
		c.Progress = Progress(c.PlantedDate, *c.ExpectedHarvest, today)
	case in.Progress != nil:
		c.Progress = clampPercent(*in.Progress)
	}
	return c, nil
}

// apply merges p into c and reports whether a date of the season moved.
func (p Patch) apply(c *Crop) (datesChanged bool, err error) {
	if err := checkArea(p.Area); err != nil {
		return false, err
	}
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Variety != nil {
		c.Variety = strings.TrimSpace(*p.Variety)
	}
	if p.PlantedDate != nil {
		datesChanged = datesChanged || !p.PlantedDate.Equal(c.PlantedDate.Time)
		c.PlantedDate = *p.PlantedDate
	}
	if p.ExpectedHarvest != nil && !p.ExpectedHarvest.IsZero() {
		h := *p.ExpectedHarvest
		datesChanged = datesChanged || c.ExpectedHarvest == nil || !h.Equal(c.ExpectedHarvest.Time)
		c.ExpectedHarvest = &h
	}
	if p.Area != nil {
		c.Area = *p.Area
	}
	if p.Location != nil {
		c.Location = strings.TrimSpace(*p.Location)
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.HealthStatus != nil {
		c.HealthStatus = *p.HealthStatus
	}
	if p.LastWatered != nil && !p.LastWatered.IsZero() {
		c.LastWatered = *p.LastWatered
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	return datesChanged, nil
}
