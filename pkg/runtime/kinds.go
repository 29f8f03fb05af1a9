package runtime

import "fmt"

// Kind identifies which variant a Value currently holds.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindDouble
	KindTensor
	KindString
	KindTuple
	KindIntList
	KindDoubleList
	KindBoolList
	KindTensorList
	KindGenericList
	KindGenericDict
	KindObject
	KindFuture
	KindBlob
	KindDevice
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindDouble:
		return "Double"
	case KindTensor:
		return "Tensor"
	case KindString:
		return "String"
	case KindTuple:
		return "Tuple"
	case KindIntList:
		return "IntList"
	case KindDoubleList:
		return "DoubleList"
	case KindBoolList:
		return "BoolList"
	case KindTensorList:
		return "TensorList"
	case KindGenericList:
		return "GenericList"
	case KindGenericDict:
		return "GenericDict"
	case KindObject:
		return "Object"
	case KindFuture:
		return "Future"
	case KindBlob:
		return "Blob"
	case KindDevice:
		return "Device"
	case KindScalar:
		return "Scalar"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// IsHeapKind reports whether values of kind k carry an owning heap pointer.
// Tensor is a heap kind even though an undefined tensor has no payload.
func (k Kind) IsHeapKind() bool {
	switch k {
	case KindTensor, KindString, KindTuple, KindIntList, KindDoubleList, KindBoolList,
		KindTensorList, KindGenericList, KindGenericDict, KindObject, KindFuture, KindBlob:
		return true
	default:
		return false
	}
}
