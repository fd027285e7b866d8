package jobticket

// Metadata carries enrichment data copied from the asset and work order
// systems when the checklist was started.
type Metadata struct {
	PartNumbers []string    `json:"partNumbers,omitempty"`
	Codes       []string    `json:"codes,omitempty"`
	Additional  *Additional `json:"additional,omitempty"`
}

// Additional holds the asset and work order snapshots.
type Additional struct {
	Codes                        string             `json:"codes,omitempty"`
	OnChecklistCompletionActions []string           `json:"onChecklistCompletionActions,omitempty"`
	Asset                        *MetadataAsset     `json:"asset,omitempty"`
	WorkOrder                    *MetadataWorkOrder `json:"workOrder,omitempty"`
}

// MetadataAsset is the asset snapshot stored in ticket metadata.
type MetadataAsset struct {
	AssetNum       string `json:"assetNum,omitempty"`
	PartNumber     string `json:"partNumber,omitempty"`
	SerialNumber   string `json:"serialNumber,omitempty"`
	Designation    string `json:"designation,omitempty"`
	CommercialName string `json:"commercialName,omitempty"`
	LCN            string `json:"lcn,omitempty"`
	Description    string `json:"description,omitempty"`
	Status         string `json:"status,omitempty"`
	BDIStatus      string `json:"bdistatus,omitempty"`
	Location       string `json:"location,omitempty"`
	OrgID          string `json:"orgid,omitempty"`
	SiteID         string `json:"siteid,omitempty"`
	Quantity       int    `json:"quantity"`
	Parent         string `json:"parent,omitempty"`
	PlusAAsOfDate  string `json:"plusaasofdate,omitempty"`
}

// MetadataWorkOrder is the work order snapshot stored in ticket metadata.
// WorkOrderNum is the key used to correlate a ticket with a work order.
type MetadataWorkOrder struct {
	WorkOrderID        int               `json:"workOrderId"`
	Title              string            `json:"title,omitempty"`
	Description        string            `json:"description,omitempty"`
	Location           string            `json:"location,omitempty"`
	Status             string            `json:"status,omitempty"`
	Deadline           string            `json:"deadline,omitempty"`
	ScheduledStart     string            `json:"scheduledStart,omitempty"`
	RealStart          string            `json:"realStart,omitempty"`
	RealEnd            string            `json:"realEnd,omitempty"`
	WorkOrderNum       string            `json:"workOrderNum,omitempty"`
	Asset              *WorkOrderAsset   `json:"asset,omitempty"`
	Contract           any               `json:"contract,omitempty"`
	ReportedBy         string            `json:"reportedBy,omitempty"`
	AssignedTo         string            `json:"assignedTo,omitempty"`
	AssignedToGroup    string            `json:"assignedToGroup,omitempty"`
	CreatedAt          string            `json:"createdAt,omitempty"`
	Type               *WorkOrderType    `json:"type,omitempty"`
	JobPlan            any               `json:"jobPlan,omitempty"`
	OrgID              string            `json:"orgid,omitempty"`
	Reference          string            `json:"reference,omitempty"`
	ReferenceID        string            `json:"referenceId,omitempty"`
	Tasks              []any             `json:"tasks,omitempty"`
	Worklogs           []any             `json:"worklogs,omitempty"`
	Attributes         []Attribute       `json:"attributes,omitempty"`
	Attachments        []any             `json:"attachments,omitempty"`
	Vendor             *Vendor           `json:"vendor,omitempty"`
	Package            *WorkOrderPackage `json:"package,omitempty"`
	ParentWorkOrderNum string            `json:"parentWorkOrderNum,omitempty"`
	CompletionRate     any               `json:"completionRate,omitempty"`
}

// WorkOrderAsset is the asset attached to a metadata work order.
type WorkOrderAsset struct {
	AssetUID           string `json:"assetuid,omitempty"`
	AssetNum           string `json:"assetNum,omitempty"`
	Ancestor           string `json:"ancestor,omitempty"`
	SerialNumber       string `json:"serialNumber,omitempty"`
	PartNumber         string `json:"partNumber,omitempty"`
	Status             string `json:"status,omitempty"`
	Designation        string `json:"designation,omitempty"`
	Description        string `json:"description,omitempty"`
	CommercialName     string `json:"commercialName,omitempty"`
	BDIStatus          string `json:"bdistatus,omitempty"`
	PlusAAsOfDate      string `json:"plusaasofdate,omitempty"`
	Model              string `json:"model,omitempty"`
	Variation          string `json:"variation,omitempty"`
	LCN                string `json:"lcn,omitempty"`
	Label              string `json:"label,omitempty"`
	PositionName       string `json:"positionName,omitempty"`
	Quantity           *int   `json:"quantity,omitempty"`
	SiteID             string `json:"siteid,omitempty"`
	OrgID              string `json:"orgid,omitempty"`
	Parent             string `json:"parent,omitempty"`
	Location           string `json:"location,omitempty"`
	LocationDetails    string `json:"locationDetails,omitempty"`
	HasChildren        *bool  `json:"hasChildren,omitempty"`
	Relations          any    `json:"relations,omitempty"`
	ConfigurationItems any    `json:"configurationItems,omitempty"`
}

type WorkOrderType struct {
	WorkType    string `json:"workType,omitempty"`
	Description string `json:"description,omitempty"`
}

type Attribute struct {
	ID        int      `json:"id"`
	Attribute string   `json:"attribute,omitempty"`
	Type      string   `json:"type,omitempty"`
	Value     []string `json:"value,omitempty"`
}

type Vendor struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type WorkOrderPackage struct {
	ID          int    `json:"id"`
	AssetNum    string `json:"assetnum,omitempty"`
	Description string `json:"description,omitempty"`
	Num         string `json:"num,omitempty"`
	Status      string `json:"status,omitempty"`
}
