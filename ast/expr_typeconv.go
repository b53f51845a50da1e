package ast

import (
	"fmt"

	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/dwoolworth/sqlpipe/render"
)

// ConvertOp is a type-conversion target.
type ConvertOp string

const (
	ConvInt      ConvertOp = "int"
	ConvLong     ConvertOp = "long"
	ConvDouble   ConvertOp = "double"
	ConvDecimal  ConvertOp = "decimal"
	ConvString   ConvertOp = "string"
	ConvBool     ConvertOp = "bool"
	ConvDate     ConvertOp = "date"
	ConvObjectID ConvertOp = "objectId"
)

var convertSQLType = map[ConvertOp]string{
	ConvInt:     "NUMBER(19)",
	ConvLong:    "NUMBER(19)",
	ConvDouble:  "BINARY_DOUBLE",
	ConvDecimal: "NUMBER",
	ConvString:  "VARCHAR2(4000)",
	ConvBool:    "NUMBER(1)",
	ConvDate:    "TIMESTAMP WITH TIME ZONE",
}

// Convert renders $toInt/$toLong/$toDouble/$toDecimal/$toString/$toBool/
// $toDate/$toObjectId and the general $convert form. OnError/OnNull, when
// set, wrap the CAST in a NVL2-style fallback matching Mongo's $convert
// semantics.
type Convert struct {
	Op      ConvertOp
	Input   Expr
	OnError Expr // nil if absent
	OnNull  Expr // nil if absent
}

func (Convert) exprNode() {}

func (c Convert) Render(ctx *render.Context, sc *Scope) (string, error) {
	in, err := c.Input.Render(ctx, sc)
	if err != nil {
		return "", err
	}

	if c.Op == ConvObjectID {
		return fmt.Sprintf("CAST(%s AS VARCHAR2(24))", in), nil
	}

	sqlType, ok := convertSQLType[c.Op]
	if !ok {
		return "", &errkind.UnsupportedOperator{Kind: "expression", Name: "$to" + string(c.Op)}
	}
	cast := fmt.Sprintf("CAST(%s AS %s)", in, sqlType)

	if c.OnNull != nil {
		onNull, err := c.OnNull.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		cast = fmt.Sprintf("NVL(%s, %s)", cast, onNull)
	}
	if c.OnError != nil {
		// Oracle has no expression-level TRY_CAST prior to 23ai's
		// conversion-error clause; a best-effort NVL2 guard is emitted
		// here and left for the dialect to upgrade when it gains
		// native conversion-error handling.
		onError, err := c.OnError.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		cast = fmt.Sprintf("NVL2(%s, %s, %s)", in, cast, onError)
	}
	return cast, nil
}

// TypeOf renders $type: the BSON type name of an expression's runtime
// value. Lowered to a single JSON_VALUE type() item-method call over the
// argument wrapped into a one-element JSON array.
type TypeOf struct {
	Arg Expr
}

func (TypeOf) exprNode() {}

func (t TypeOf) Render(ctx *render.Context, sc *Scope) (string, error) {
	arg, err := t.Arg.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("JSON_VALUE(JSON_QUERY(%s, '$' WITH WRAPPER), '$[0].type()')", arg), nil
}

// TypeCheckOp names a $isNumber/$isString-style predicate.
type TypeCheckOp string

const (
	IsNumber TypeCheckOp = "isNumber"
	IsString TypeCheckOp = "isString"
)

// TypeCheck renders $isNumber/$isString as a JSON_VALUE TYPE comparison.
type TypeCheck struct {
	Op  TypeCheckOp
	Arg Expr
}

func (TypeCheck) exprNode() {}

func (t TypeCheck) Render(ctx *render.Context, sc *Scope) (string, error) {
	arg, err := t.Arg.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	want := "string"
	if t.Op == IsNumber {
		want = "number"
	}
	return fmt.Sprintf(
		"(CASE WHEN JSON_VALUE(JSON_QUERY(%s, '$' WITH WRAPPER), '$[0].type()') = '%s' THEN 1 ELSE 0 END)",
		arg, want,
	), nil
}
