package pst

import "github.com/google/uuid"

// Well-known property sets.
var (
	PSNull                 = uuid.Nil
	PSPublicStrings        = uuid.MustParse("00020329-0000-0000-C000-000000000046")
	PSMAPI                 = uuid.MustParse("00020328-0000-0000-C000-000000000046")
	PSCommon               = uuid.MustParse("00062008-0000-0000-C000-000000000046")
	PSAddress              = uuid.MustParse("00062004-0000-0000-C000-000000000046")
	PSAppointment          = uuid.MustParse("00062002-0000-0000-C000-000000000046")
	PSTask                 = uuid.MustParse("00062003-0000-0000-C000-000000000046")
	PSLog                  = uuid.MustParse("0006200A-0000-0000-C000-000000000046")
	PSNote                 = uuid.MustParse("0006200E-0000-0000-C000-000000000046")
	PSSharing              = uuid.MustParse("00062040-0000-0000-C000-000000000046")
	PSMeeting              = uuid.MustParse("6ED8DA90-450B-101B-98DA-00AA003F1305")
	PSMessaging            = uuid.MustParse("41F28F13-83F4-4114-A584-EEDB5A6B0BFF")
	PSUnifiedMessaging     = uuid.MustParse("4442858E-A9E3-4E80-B900-317A210CC15B")
	PSAirSync              = uuid.MustParse("71035549-0739-4DCB-9163-00F0580DBBDF")
	PSXMLExtractedEntities = uuid.MustParse("23239608-685D-4732-9C55-4C95CB4E8E33")
	PSAttachment           = uuid.MustParse("96357F7F-59E1-47D0-99A7-46515C183B54")
	PSInternal             = uuid.MustParse("C1843281-8505-D011-B290-00AA003CF676")
	ProviderUIDOneOff      = uuid.MustParse("812B1FA4-BEA3-1019-9D6E-00DD010F5402")
)

var propertySetNames = map[uuid.UUID]string{
	PSNull:                 "Null",
	PSPublicStrings:        "PublicStrings",
	PSMAPI:                 "MAPI",
	PSCommon:               "Common",
	PSAddress:              "Address",
	PSAppointment:          "Appointment",
	PSTask:                 "Task",
	PSLog:                  "Journal",
	PSNote:                 "Note",
	PSSharing:              "Sharing",
	PSMeeting:              "Meeting",
	PSMessaging:            "Messaging",
	PSUnifiedMessaging:     "UnifiedMessaging",
	PSAirSync:              "AirSync",
	PSXMLExtractedEntities: "XMLExtractedEntities",
	PSAttachment:           "Attachment",
	PSInternal:             "Internal",
	ProviderUIDOneOff:      "OneOffEntryID",
}

// PropertySetName returns the name of a well-known property set, or the
// GUID in its canonical form.
func PropertySetName(id uuid.UUID) string {
	if name, ok := propertySetNames[id]; ok {
		return name
	}
	return id.String()
}
