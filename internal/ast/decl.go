package ast

import (
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

type DeclKind uint8

const (
	DeclEmpty DeclKind = iota
	DeclNamespace
	DeclNamespaceAlias
	DeclClass
	DeclEnum
	DeclTypedef
	DeclSimple
	DeclFunction
	DeclTemplate
	DeclUsingDirective
	DeclUsingDeclaration
	DeclLinkage
	DeclAccess
)

var declKindNames = [...]string{
	DeclEmpty:            "Empty",
	DeclNamespace:        "NamespaceSpec",
	DeclNamespaceAlias:   "NamespaceAlias",
	DeclClass:            "ClassSpec",
	DeclEnum:             "EnumSpec",
	DeclTypedef:          "Typedef",
	DeclSimple:           "Declaration",
	DeclFunction:         "FunctionDefinition",
	DeclTemplate:         "TemplateDecl",
	DeclUsingDirective:   "UsingDirective",
	DeclUsingDeclaration: "UsingDeclaration",
	DeclLinkage:          "LinkageSpec",
	DeclAccess:           "AccessSpec",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return "Decl(?)"
}

type Decl struct {
	Kind    DeclKind
	Span    source.Span
	Payload PayloadID
}

// Storage holds decl-specifiers that do not name a type.
type Storage uint16

const (
	StorageStatic Storage = 1 << iota
	StorageExtern
	StorageInline
	StorageVirtual
	StorageExplicit
	StorageFriend
	StorageMutable
	StorageRegister
	StorageConstexpr
)

type NamespaceDecl struct {
	Name      encoding.Encoding // AnonymousNamespace() when unnamed
	NameSpan  source.Span
	Anonymous bool
	Body      []DeclID
}

type NamespaceAliasDecl struct {
	Name       encoding.Encoding
	NameSpan   source.Span
	Target     encoding.Encoding
	TargetSpan source.Span
}

type BaseSpec struct {
	Name    encoding.Encoding
	Span    source.Span
	Access  token.Kind // KwPublic, KwProtected, KwPrivate or Invalid
	Virtual bool
}

type ClassDecl struct {
	Key       token.Kind // KwClass, KwStruct or KwUnion
	Name      encoding.Encoding
	NameSpan  source.Span
	Anonymous bool
	Bases     []BaseSpec
	HasBody   bool
	Members   []DeclID
}

type Enumerator struct {
	Name  encoding.Encoding
	Span  source.Span
	Value ExprID
}

type EnumDecl struct {
	Name        encoding.Encoding
	NameSpan    source.Span
	Anonymous   bool
	HasBody     bool
	Enumerators []Enumerator
}

// TypedefDecl declares each declarator as an alias of its type.
type TypedefDecl struct {
	Declarators []DeclaratorID
}

// SimpleDecl is a declaration list: variables, function declarations,
// static members, friends.
type SimpleDecl struct {
	Storage     Storage
	Declarators []DeclaratorID
}

// FunctionDecl is a function definition.
type FunctionDecl struct {
	Storage    Storage
	Declarator DeclaratorID
	MemInits   []ExprID // constructor initializers, as call expressions
	Body       StmtID
}

type TemplateParamKind uint8

const (
	TemplateTypeParam TemplateParamKind = iota
	TemplateValueParam
	TemplateTemplateParam
)

type TemplateParam struct {
	Kind        TemplateParamKind
	Name        encoding.Encoding // empty for unnamed parameters
	Span        source.Span
	Type        encoding.Encoding // value parameters only
	DefaultType encoding.Encoding
	Default     ExprID
}

type TemplateDecl struct {
	Params []TemplateParam
	Decl   DeclID
}

type UsingDirectiveDecl struct {
	Name     encoding.Encoding
	NameSpan source.Span
}

type UsingDeclarationDecl struct {
	Name     encoding.Encoding
	NameSpan source.Span
	Typename bool
}

type LinkageDecl struct {
	Language string
	Body     []DeclID
}

type AccessDecl struct {
	Access token.Kind
}

type Decls struct {
	Arena      *Arena[Decl]
	Namespaces *Arena[NamespaceDecl]
	Aliases    *Arena[NamespaceAliasDecl]
	Classes    *Arena[ClassDecl]
	Enums      *Arena[EnumDecl]
	Typedefs   *Arena[TypedefDecl]
	Simples    *Arena[SimpleDecl]
	Functions  *Arena[FunctionDecl]
	Templates  *Arena[TemplateDecl]
	Directives *Arena[UsingDirectiveDecl]
	Usings     *Arena[UsingDeclarationDecl]
	Linkages   *Arena[LinkageDecl]
	Accesses   *Arena[AccessDecl]
}

func NewDecls(capHint uint) *Decls {
	return &Decls{
		Arena:      NewArena[Decl](capHint),
		Namespaces: NewArena[NamespaceDecl](capHint / 8),
		Aliases:    NewArena[NamespaceAliasDecl](0),
		Classes:    NewArena[ClassDecl](capHint / 4),
		Enums:      NewArena[EnumDecl](capHint / 8),
		Typedefs:   NewArena[TypedefDecl](capHint / 8),
		Simples:    NewArena[SimpleDecl](capHint),
		Functions:  NewArena[FunctionDecl](capHint / 2),
		Templates:  NewArena[TemplateDecl](capHint / 8),
		Directives: NewArena[UsingDirectiveDecl](0),
		Usings:     NewArena[UsingDeclarationDecl](0),
		Linkages:   NewArena[LinkageDecl](0),
		Accesses:   NewArena[AccessDecl](capHint / 8),
	}
}

func (d *Decls) new(kind DeclKind, sp source.Span, payload uint32) DeclID {
	return DeclID(d.Arena.Allocate(Decl{Kind: kind, Span: sp, Payload: PayloadID(payload)}))
}

func (d *Decls) Get(id DeclID) *Decl {
	return d.Arena.Get(uint32(id))
}

func (d *Decls) payload(id DeclID, kind DeclKind) (uint32, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != kind {
		return 0, false
	}
	return uint32(decl.Payload), true
}

func (d *Decls) NewNamespace(sp source.Span, data NamespaceDecl) DeclID {
	return d.new(DeclNamespace, sp, d.Namespaces.Allocate(data))
}

func (d *Decls) Namespace(id DeclID) (*NamespaceDecl, bool) {
	p, ok := d.payload(id, DeclNamespace)
	return d.Namespaces.Get(p), ok
}

func (d *Decls) NewNamespaceAlias(sp source.Span, data NamespaceAliasDecl) DeclID {
	return d.new(DeclNamespaceAlias, sp, d.Aliases.Allocate(data))
}

func (d *Decls) NamespaceAlias(id DeclID) (*NamespaceAliasDecl, bool) {
	p, ok := d.payload(id, DeclNamespaceAlias)
	return d.Aliases.Get(p), ok
}

func (d *Decls) NewClass(sp source.Span, data ClassDecl) DeclID {
	return d.new(DeclClass, sp, d.Classes.Allocate(data))
}

func (d *Decls) Class(id DeclID) (*ClassDecl, bool) {
	p, ok := d.payload(id, DeclClass)
	return d.Classes.Get(p), ok
}

func (d *Decls) NewEnum(sp source.Span, data EnumDecl) DeclID {
	return d.new(DeclEnum, sp, d.Enums.Allocate(data))
}

func (d *Decls) Enum(id DeclID) (*EnumDecl, bool) {
	p, ok := d.payload(id, DeclEnum)
	return d.Enums.Get(p), ok
}

func (d *Decls) NewTypedef(sp source.Span, data TypedefDecl) DeclID {
	return d.new(DeclTypedef, sp, d.Typedefs.Allocate(data))
}

func (d *Decls) Typedef(id DeclID) (*TypedefDecl, bool) {
	p, ok := d.payload(id, DeclTypedef)
	return d.Typedefs.Get(p), ok
}

func (d *Decls) NewSimple(sp source.Span, data SimpleDecl) DeclID {
	return d.new(DeclSimple, sp, d.Simples.Allocate(data))
}

func (d *Decls) Simple(id DeclID) (*SimpleDecl, bool) {
	p, ok := d.payload(id, DeclSimple)
	return d.Simples.Get(p), ok
}

func (d *Decls) NewFunction(sp source.Span, data FunctionDecl) DeclID {
	return d.new(DeclFunction, sp, d.Functions.Allocate(data))
}

func (d *Decls) Function(id DeclID) (*FunctionDecl, bool) {
	p, ok := d.payload(id, DeclFunction)
	return d.Functions.Get(p), ok
}

func (d *Decls) NewTemplate(sp source.Span, data TemplateDecl) DeclID {
	return d.new(DeclTemplate, sp, d.Templates.Allocate(data))
}

func (d *Decls) Template(id DeclID) (*TemplateDecl, bool) {
	p, ok := d.payload(id, DeclTemplate)
	return d.Templates.Get(p), ok
}

func (d *Decls) NewUsingDirective(sp source.Span, data UsingDirectiveDecl) DeclID {
	return d.new(DeclUsingDirective, sp, d.Directives.Allocate(data))
}

func (d *Decls) UsingDirective(id DeclID) (*UsingDirectiveDecl, bool) {
	p, ok := d.payload(id, DeclUsingDirective)
	return d.Directives.Get(p), ok
}

func (d *Decls) NewUsingDeclaration(sp source.Span, data UsingDeclarationDecl) DeclID {
	return d.new(DeclUsingDeclaration, sp, d.Usings.Allocate(data))
}

func (d *Decls) UsingDeclaration(id DeclID) (*UsingDeclarationDecl, bool) {
	p, ok := d.payload(id, DeclUsingDeclaration)
	return d.Usings.Get(p), ok
}

func (d *Decls) NewLinkage(sp source.Span, data LinkageDecl) DeclID {
	return d.new(DeclLinkage, sp, d.Linkages.Allocate(data))
}

func (d *Decls) Linkage(id DeclID) (*LinkageDecl, bool) {
	p, ok := d.payload(id, DeclLinkage)
	return d.Linkages.Get(p), ok
}

func (d *Decls) NewAccess(sp source.Span, access token.Kind) DeclID {
	return d.new(DeclAccess, sp, d.Accesses.Allocate(AccessDecl{Access: access}))
}

func (d *Decls) Access(id DeclID) (*AccessDecl, bool) {
	p, ok := d.payload(id, DeclAccess)
	return d.Accesses.Get(p), ok
}
