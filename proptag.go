package pst

import "fmt"

// PropTag identifies a property: the property ID in the upper 16 bits and
// its PropType in the lower 16.
type PropTag uint32

// MakePropTag composes a tag.
func MakePropTag(id uint16, t PropType) PropTag { return PropTag(uint32(id)<<16 | uint32(t)) }

// ID returns the property ID.
func (t PropTag) ID() uint16 { return uint16(t >> 16) }

// Type returns the property type.
func (t PropTag) Type() PropType { return PropType(t) }

// String returns the well-known name of the tag, if any, or its hex form.
func (t PropTag) String() string {
	if name, ok := propTagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("0x%08X", uint32(t))
}

// Well-known property tags.
const (
	TagImportance             PropTag = 0x00170003
	TagMessageClass           PropTag = 0x001A001F
	TagSensitivity            PropTag = 0x00360003
	TagSubject                PropTag = 0x0037001F
	TagClientSubmitTime       PropTag = 0x00390040
	TagSentRepresentingName   PropTag = 0x0042001F
	TagSenderName             PropTag = 0x0C1A001F
	TagRecipientType          PropTag = 0x0C150003
	TagDisplayBcc             PropTag = 0x0E02001F
	TagDisplayCc              PropTag = 0x0E03001F
	TagDisplayTo              PropTag = 0x0E04001F
	TagMessageDeliveryTime    PropTag = 0x0E060040
	TagMessageFlags           PropTag = 0x0E070003
	TagMessageSize            PropTag = 0x0E080003
	TagResponsibility         PropTag = 0x0E0F000B
	TagAttachSize             PropTag = 0x0E200003
	TagReplItemID             PropTag = 0x0E300003
	TagReplChangeNum          PropTag = 0x0E330014
	TagReplVersionHistory     PropTag = 0x0E340102
	TagReplFlags              PropTag = 0x0E380003
	TagInstanceKey            PropTag = 0x0FF60102
	TagRecordKey              PropTag = 0x0FF90102
	TagEntryID                PropTag = 0x0FFF0102
	TagBody                   PropTag = 0x1000001F
	TagDisplayName            PropTag = 0x3001001F
	TagAddressType            PropTag = 0x3002001F
	TagEmailAddress           PropTag = 0x3003001F
	TagCreationTime           PropTag = 0x30070040
	TagLastModificationTime   PropTag = 0x30080040
	TagValidFolderMask        PropTag = 0x35DF0003
	TagIPMSubtreeEntryID      PropTag = 0x35E00102
	TagContentCount           PropTag = 0x36020003
	TagContentUnreadCount     PropTag = 0x36030003
	TagSubfolders             PropTag = 0x360A000B
	TagContainerClass         PropTag = 0x3613001F
	TagAttachDataBinary       PropTag = 0x37010102
	TagAttachFilename         PropTag = 0x3704001F
	TagAttachMethod           PropTag = 0x37050003
	TagAttachLongFilename     PropTag = 0x3707001F
	TagRenderingPosition      PropTag = 0x370B0003
	TagAccount                PropTag = 0x3A00001F
	TagSMTPAddress            PropTag = 0x39FE001F
	TagLtpRowID               PropTag = 0x67F20003
	TagLtpRowVer              PropTag = 0x67F30003
)

var propTagNames = map[PropTag]string{
	TagImportance:           "Importance",
	TagMessageClass:         "MessageClass",
	TagSensitivity:          "Sensitivity",
	TagSubject:              "Subject",
	TagClientSubmitTime:     "ClientSubmitTime",
	TagSentRepresentingName: "SentRepresentingName",
	TagSenderName:           "SenderName",
	TagRecipientType:        "RecipientType",
	TagDisplayBcc:           "DisplayBcc",
	TagDisplayCc:            "DisplayCc",
	TagDisplayTo:            "DisplayTo",
	TagMessageDeliveryTime:  "MessageDeliveryTime",
	TagMessageFlags:         "MessageFlags",
	TagMessageSize:          "MessageSize",
	TagResponsibility:       "Responsibility",
	TagAttachSize:           "AttachSize",
	TagReplItemID:           "ReplItemID",
	TagReplChangeNum:        "ReplChangeNum",
	TagReplVersionHistory:   "ReplVersionHistory",
	TagReplFlags:            "ReplFlags",
	TagInstanceKey:          "InstanceKey",
	TagRecordKey:            "RecordKey",
	TagEntryID:              "EntryID",
	TagBody:                 "Body",
	TagDisplayName:          "DisplayName",
	TagAddressType:          "AddressType",
	TagEmailAddress:         "EmailAddress",
	TagCreationTime:         "CreationTime",
	TagLastModificationTime: "LastModificationTime",
	TagValidFolderMask:      "ValidFolderMask",
	TagIPMSubtreeEntryID:    "IPMSubtreeEntryID",
	TagContentCount:         "ContentCount",
	TagContentUnreadCount:   "ContentUnreadCount",
	TagSubfolders:           "Subfolders",
	TagContainerClass:       "ContainerClass",
	TagAttachDataBinary:     "AttachDataBinary",
	TagAttachFilename:       "AttachFilename",
	TagAttachMethod:         "AttachMethod",
	TagAttachLongFilename:   "AttachLongFilename",
	TagRenderingPosition:    "RenderingPosition",
	TagAccount:              "Account",
	TagSMTPAddress:          "SMTPAddress",
	TagLtpRowID:             "LtpRowID",
	TagLtpRowVer:            "LtpRowVer",
}
