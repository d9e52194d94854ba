package syntax

type (
	TopLevelItemID    uint32
	ImportID          uint32
	DeclID            uint32
	ExtensionID       uint32
	TopLevelIfConfigID uint32
	CodeIfConfigID    uint32
	CodeBlockItemID   uint32
	StmtID            uint32
	ExprID            uint32
	TypeExprID        uint32
	AttrID            uint32
	BindingID         uint32
	ParamID           uint32
)

const (
	NoTopLevelItemID    TopLevelItemID     = 0
	NoImportID          ImportID           = 0
	NoDeclID            DeclID             = 0
	NoExtensionID       ExtensionID        = 0
	NoTopLevelIfConfigID TopLevelIfConfigID = 0
	NoCodeIfConfigID    CodeIfConfigID     = 0
	NoCodeBlockItemID   CodeBlockItemID    = 0
	NoStmtID            StmtID             = 0
	NoExprID            ExprID             = 0
	NoTypeExprID        TypeExprID         = 0
	NoAttrID            AttrID             = 0
	NoBindingID         BindingID          = 0
	NoParamID           ParamID            = 0
)

func (id TopLevelItemID) IsValid() bool     { return id != NoTopLevelItemID }
func (id ImportID) IsValid() bool           { return id != NoImportID }
func (id DeclID) IsValid() bool             { return id != NoDeclID }
func (id ExtensionID) IsValid() bool        { return id != NoExtensionID }
func (id TopLevelIfConfigID) IsValid() bool { return id != NoTopLevelIfConfigID }
func (id CodeIfConfigID) IsValid() bool     { return id != NoCodeIfConfigID }
func (id CodeBlockItemID) IsValid() bool    { return id != NoCodeBlockItemID }
func (id StmtID) IsValid() bool             { return id != NoStmtID }
func (id ExprID) IsValid() bool             { return id != NoExprID }
func (id TypeExprID) IsValid() bool         { return id != NoTypeExprID }
func (id AttrID) IsValid() bool             { return id != NoAttrID }
func (id BindingID) IsValid() bool          { return id != NoBindingID }
func (id ParamID) IsValid() bool            { return id != NoParamID }
