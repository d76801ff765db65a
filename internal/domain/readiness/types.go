package readiness

type ParticipantRole string

const (
	RoleLP        ParticipantRole = "LP"
	RoleACMember  ParticipantRole = "AC_MEMBER"
	RoleABMember  ParticipantRole = "AB_MEMBER"
	RoleIPTeam    ParticipantRole = "IP_TEAM"
	RoleLocalTeam ParticipantRole = "LOCAL_TEAM"
	RoleEcosystem ParticipantRole = "ECOSYSTEM"
)

// VisaStatus vacío equivale a "sin estado" (null en la base).
type VisaStatus string

const (
	VisaNotNeeded VisaStatus = "NOT_NEEDED"
	VisaPending   VisaStatus = "PENDING"
	VisaSubmitted VisaStatus = "SUBMITTED"
	VisaApproved  VisaStatus = "APPROVED"
	VisaRejected  VisaStatus = "REJECTED"
)

type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "PENDING"
	RSVPConfirmed RSVPStatus = "CONFIRMED"
	RSVPDeclined  RSVPStatus = "DECLINED"
	RSVPTentative RSVPStatus = "TENTATIVE"
)

type VendorCategory string

const (
	VendorHotel       VendorCategory = "HOTEL"
	VendorTransport   VendorCategory = "TRANSPORT"
	VendorAVEquipment VendorCategory = "AV_EQUIPMENT"
	VendorTranslation VendorCategory = "TRANSLATION"
	VendorRestaurant  VendorCategory = "RESTAURANT"
	VendorMeetGreet   VendorCategory = "MEET_GREET"
	VendorSIMCards    VendorCategory = "SIM_CARDS"
	VendorSecurity    VendorCategory = "SECURITY"
	VendorOther       VendorCategory = "OTHER"
)

type WorkstreamType string

const (
	WorkstreamDateSelection    WorkstreamType = "DATE_SELECTION"
	WorkstreamVisaImmigration  WorkstreamType = "VISA_IMMIGRATION"
	WorkstreamFlightsTransfers WorkstreamType = "FLIGHTS_TRANSFERS"
	WorkstreamHotel            WorkstreamType = "HOTEL"
	WorkstreamMeetingRooms     WorkstreamType = "MEETING_ROOMS"
	WorkstreamAVTranslation    WorkstreamType = "AV_TRANSLATION"
	WorkstreamCompanyVisits    WorkstreamType = "COMPANY_VISITS"
	WorkstreamGroundTransport  WorkstreamType = "GROUND_TRANSPORT"
	WorkstreamMeals            WorkstreamType = "MEALS"
	WorkstreamEcosystemEvent   WorkstreamType = "ECOSYSTEM_EVENT"
	WorkstreamITConnectivity   WorkstreamType = "IT_CONNECTIVITY"
	WorkstreamSecurity         WorkstreamType = "SECURITY"
	WorkstreamBudgetContracts  WorkstreamType = "BUDGET_CONTRACTS"
	WorkstreamCommunications   WorkstreamType = "COMMUNICATIONS"
)

// WorkstreamTypes es el orden canónico de los workstreams de un evento.
var WorkstreamTypes = []WorkstreamType{
	WorkstreamDateSelection,
	WorkstreamVisaImmigration,
	WorkstreamFlightsTransfers,
	WorkstreamHotel,
	WorkstreamMeetingRooms,
	WorkstreamAVTranslation,
	WorkstreamCompanyVisits,
	WorkstreamGroundTransport,
	WorkstreamMeals,
	WorkstreamEcosystemEvent,
	WorkstreamITConnectivity,
	WorkstreamSecurity,
	WorkstreamBudgetContracts,
	WorkstreamCommunications,
}

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "NOT_STARTED"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskBlocked    TaskStatus = "BLOCKED"
	TaskDone       TaskStatus = "DONE"
)

// Criticality vacía equivale a null.
type Criticality string

const (
	CriticalityLow      Criticality = "LOW"
	CriticalityMedium   Criticality = "MEDIUM"
	CriticalityHigh     Criticality = "HIGH"
	CriticalityBlocking Criticality = "BLOCKING"
)

type Severity string

const (
	SeverityBlocker Severity = "blocker"
	SeverityWarning Severity = "warning"
)

func IsWorkstreamType(t WorkstreamType) bool {
	for _, w := range WorkstreamTypes {
		if w == t {
			return true
		}
	}
	return false
}

func (r ParticipantRole) Valid() bool {
	switch r {
	case RoleLP, RoleACMember, RoleABMember, RoleIPTeam, RoleLocalTeam, RoleEcosystem:
		return true
	}
	return false
}

// Valid acepta el valor vacío (null).
func (v VisaStatus) Valid() bool {
	switch v {
	case "", VisaNotNeeded, VisaPending, VisaSubmitted, VisaApproved, VisaRejected:
		return true
	}
	return false
}

func (r RSVPStatus) Valid() bool {
	switch r {
	case RSVPPending, RSVPConfirmed, RSVPDeclined, RSVPTentative:
		return true
	}
	return false
}

func (c VendorCategory) Valid() bool {
	switch c {
	case VendorHotel, VendorTransport, VendorAVEquipment, VendorTranslation,
		VendorRestaurant, VendorMeetGreet, VendorSIMCards, VendorSecurity, VendorOther:
		return true
	}
	return false
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskNotStarted, TaskInProgress, TaskBlocked, TaskDone:
		return true
	}
	return false
}

// Valid acepta el valor vacío (null).
func (c Criticality) Valid() bool {
	switch c {
	case "", CriticalityLow, CriticalityMedium, CriticalityHigh, CriticalityBlocking:
		return true
	}
	return false
}
