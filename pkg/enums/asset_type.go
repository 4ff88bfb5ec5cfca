package enums

import "fmt"

// AssetType distinguishes product media kinds.
type AssetType string

const (
	AssetTypeImage AssetType = "IMAGE"
	AssetTypeVideo AssetType = "VIDEO"
)

var validAssetTypes = []AssetType{
	AssetTypeImage,
	AssetTypeVideo,
}

// String implements fmt.Stringer.
func (a AssetType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AssetType.
func (a AssetType) IsValid() bool {
	for _, candidate := range validAssetTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAssetType converts raw input into an AssetType.
func ParseAssetType(value string) (AssetType, error) {
	for _, candidate := range validAssetTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid asset type %q", value)
}
