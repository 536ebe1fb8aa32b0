// Package emit translates an optimized IR module into C source text
// and, optionally, invokes an external C compiler to turn that text
// into an object file or executable.
package emit

import (
	"fmt"
	"strings"

	"github.com/aetherlang/aethc/internal/ir"
)

// cType maps an IR type to its C spelling for the given target
// triple. Vector types route through target-specific intrinsic type
// names with a GCC vector-extension fallback.
func cType(t *ir.Type, target string) string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case ir.Void:
		return "void"
	case ir.Bool:
		return "bool"
	case ir.I8:
		return "int8_t"
	case ir.I16:
		return "int16_t"
	case ir.I32:
		return "int32_t"
	case ir.I64:
		return "int64_t"
	case ir.U8:
		return "uint8_t"
	case ir.U16:
		return "uint16_t"
	case ir.U32:
		return "uint32_t"
	case ir.U64:
		return "uint64_t"
	case ir.F32:
		return "float"
	case ir.F64:
		return "double"
	case ir.PointerT:
		return cType(t.Elem, target) + "*"
	case ir.ArrayT:
		return fmt.Sprintf("%s[%d]", cType(t.Elem, target), t.Len)
	case ir.StructT:
		return "struct " + t.Name
	case ir.FunctionT:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = cType(p, target)
		}
		return fmt.Sprintf("%s(*)(%s)", cType(t.Ret, target), strings.Join(params, ", "))
	case ir.VectorT:
		return vectorCType(t, target)
	}
	return "int64_t"
}

// vectorCType resolves a lane-count/element-kind vector to the
// matching ARM NEON or x86 SSE/AVX intrinsic type, falling back to the
// GCC vector_size extension for combinations neither platform names.
func vectorCType(t *ir.Type, target string) string {
	arm := strings.Contains(target, "aarch64") || strings.Contains(target, "arm")
	if arm {
		switch {
		case t.Elem.Kind == ir.F32 && t.Len == 4:
			return "float32x4_t"
		case t.Elem.Kind == ir.F64 && t.Len == 2:
			return "float64x2_t"
		case t.Elem.Kind == ir.I32 && t.Len == 4:
			return "int32x4_t"
		case t.Elem.Kind == ir.I64 && t.Len == 2:
			return "int64x2_t"
		}
	} else {
		switch {
		case t.Elem.Kind == ir.F32 && t.Len == 4:
			return "__m128"
		case t.Elem.Kind == ir.F32 && t.Len == 8:
			return "__m256"
		case t.Elem.Kind == ir.F64 && t.Len == 2:
			return "__m128d"
		case t.Elem.Kind == ir.F64 && t.Len == 4:
			return "__m256d"
		case t.Elem.Kind == ir.I32 && t.Len == 4:
			return "__m128i"
		case t.Elem.Kind == ir.I32 && t.Len == 8:
			return "__m256i"
		case t.Elem.Kind == ir.I64 && t.Len == 2:
			return "__m128i"
		case t.Elem.Kind == ir.I64 && t.Len == 4:
			return "__m256i"
		}
	}
	return fmt.Sprintf("%s __attribute__((vector_size(%d)))", cType(t.Elem, target), t.Elem.ByteSize()*t.Len)
}

// simdHeader picks the platform SIMD header by target-triple
// substring.
func simdHeader(target string) string {
	if strings.Contains(target, "aarch64") || strings.Contains(target, "arm") {
		return "arm_neon.h"
	}
	return "immintrin.h"
}
