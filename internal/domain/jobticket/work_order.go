package jobticket

// ShortWorkPeriod is the work order export of the maintenance backend.
// Work orders are listed under "member".
type ShortWorkPeriod struct {
	Members []WorkOrder `json:"member"`
}

// WorkOrder is one work order of a short work period export. Field names
// follow the export format.
type WorkOrder struct {
	ID                   string    `json:"_id,omitempty"`
	TranslationCode      string    `json:"_translangcode,omitempty"`
	ActualFinish         Timestamp `json:"actfinish"`
	ActualStart          Timestamp `json:"actstart"`
	AssetNum             string    `json:"assetnum,omitempty"`
	Description          string    `json:"description,omitempty"`
	LongDescription      string    `json:"description_longdescription,omitempty"`
	Href                 string    `json:"href,omitempty"`
	JobPlanNumber        string    `json:"jpnum,omitempty"`
	Owner                string    `json:"owner,omitempty"`
	Parent               string    `json:"parent,omitempty"`
	PhysicalLocation     string    `json:"pcphys,omitempty"`
	ReferenceType        string    `json:"plusareference,omitempty"`
	ReferenceID          string    `json:"plusareferenceid,omitempty"`
	WorkPerformedBy      string    `json:"plusmworkperf,omitempty"`
	ScheduledFinish      Timestamp `json:"schedfinish"`
	ScheduledStart       Timestamp `json:"schedstart"`
	SiteID               string    `json:"siteid,omitempty"`
	Status               string    `json:"status,omitempty"`
	StatusDescription    string    `json:"status_description,omitempty"`
	TargetCompletionDate Timestamp `json:"targcompdate"`
	TargetStartDate      Timestamp `json:"targstartdate"`
	CallDate             Timestamp `json:"thacalldate"`
	CFTO                 string    `json:"thacfto,omitempty"`
	AdditionalDesc       string    `json:"thadesc,omitempty"`
	AmountCompletedPlan  string    `json:"thamtcpln,omitempty"`
	N1N9                 string    `json:"than1n9,omitempty"`
	And                  string    `json:"thand,omitempty"`
	AnswerComplete       *bool     `json:"thansc,omitempty"`
	AnswerDate           Timestamp `json:"thantfdate"`
	AnswerFrom           string    `json:"thantffrom,omitempty"`
	AnswerTo             string    `json:"thantfto,omitempty"`
	OperationDefinition  string    `json:"thaopdef,omitempty"`
	Vendor               string    `json:"vendor,omitempty"`
	WONum                string    `json:"wonum,omitempty"`
	WorkType             string    `json:"worktype,omitempty"`
}

// FindByWONum returns the first work order whose WONum equals wonum.
// An empty wonum never matches.
func (s *ShortWorkPeriod) FindByWONum(wonum string) *WorkOrder {
	if s == nil || wonum == "" {
		return nil
	}
	for i := range s.Members {
		if s.Members[i].WONum == wonum {
			return &s.Members[i]
		}
	}
	return nil
}
