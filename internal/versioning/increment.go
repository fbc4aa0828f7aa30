package versioning

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/xnmeet/evem/internal/domain/entities"
)

const (
	releaseMajor      = "major"
	releaseMinor      = "minor"
	releasePatch      = "patch"
	releasePremajor   = "premajor"
	releasePreminor   = "preminor"
	releasePrepatch   = "prepatch"
	releasePrerelease = "prerelease"
)

// version is a mutable semver value; prerelease identifiers keep their textual form.
type version struct {
	major, minor, patch uint64
	pre                 []string
}

func parseVersion(raw string) (*version, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	parsed := &version{major: v.Major(), minor: v.Minor(), patch: v.Patch()}
	if v.Prerelease() != "" {
		parsed.pre = strings.Split(v.Prerelease(), ".")
	}
	return parsed, nil
}

func (v *version) formal() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

func (v *version) String() string {
	if len(v.pre) == 0 {
		return v.formal()
	}
	return v.formal() + "-" + strings.Join(v.pre, ".")
}

func isNumeric(identifier string) bool {
	if identifier == "" {
		return false
	}
	_, err := strconv.ParseUint(identifier, 10, 64)
	return err == nil
}

// inc applies a node-semver style increment in place.
func (v *version) inc(release, identifier string) error {
	switch release {
	case releasePremajor:
		v.pre = nil
		v.patch = 0
		v.minor = 0
		v.major++
		v.incPre(identifier)
	case releasePreminor:
		v.pre = nil
		v.patch = 0
		v.minor++
		v.incPre(identifier)
	case releasePrepatch:
		v.pre = nil
		_ = v.inc(releasePatch, "")
		v.incPre(identifier)
	case releasePrerelease:
		if len(v.pre) == 0 {
			_ = v.inc(releasePatch, "")
		}
		v.incPre(identifier)
	case releaseMajor:
		// 1.0.0-beta becomes 1.0.0; anything else moves to the next major
		if v.minor != 0 || v.patch != 0 || len(v.pre) == 0 {
			v.major++
		}
		v.minor = 0
		v.patch = 0
		v.pre = nil
	case releaseMinor:
		if v.patch != 0 || len(v.pre) == 0 {
			v.minor++
		}
		v.patch = 0
		v.pre = nil
	case releasePatch:
		if len(v.pre) == 0 {
			v.patch++
		}
		v.pre = nil
	default:
		return fmt.Errorf("invalid increment argument %q", release)
	}
	return nil
}

// incPre bumps the last numeric prerelease identifier and re-seeds it when the label changes.
func (v *version) incPre(identifier string) {
	if len(v.pre) == 0 {
		v.pre = []string{"0"}
	} else {
		bumped := false
		for i := len(v.pre) - 1; i >= 0; i-- {
			if isNumeric(v.pre[i]) {
				n, _ := strconv.ParseUint(v.pre[i], 10, 64)
				v.pre[i] = strconv.FormatUint(n+1, 10)
				bumped = true
				break
			}
		}
		if !bumped {
			v.pre = append(v.pre, "0")
		}
	}

	if identifier == "" {
		return
	}
	if v.pre[0] == identifier && len(v.pre) > 1 && isNumeric(v.pre[1]) {
		return
	}
	v.pre = []string{identifier, "0"}
}

// Increment performs a plain increment of version by bump.
func Increment(current string, bump entities.BumpType) (string, error) {
	if bump == entities.BumpNone {
		return current, nil
	}
	v, err := parseVersion(current)
	if err != nil {
		return "", err
	}
	if incErr := v.inc(string(bump), ""); incErr != nil {
		return "", incErr
	}
	return v.String(), nil
}

// IncrementVersion computes the next version of a release, honouring a prerelease label.
//
// A label containing a dot is an exact suffix ("1.1.0-beta.3"). Otherwise the label seeds a
// premajor/preminor/prerelease increment. When the current version is already a prerelease
// and the increment would move to a different formal version than the plain increment,
// the existing prerelease prefix is kept and its counter bumped so that repeated prerelease
// runs never restart a sequence.
func IncrementVersion(current string, bump entities.BumpType, preName string) (string, error) {
	if bump == entities.BumpNone {
		return current, nil
	}

	plain, err := Increment(current, bump)
	if err != nil {
		return "", err
	}
	if preName == "" {
		return plain, nil
	}
	if strings.Contains(preName, ".") {
		return plain + "-" + preName, nil
	}

	release := releasePrerelease
	switch bump {
	case entities.BumpMajor:
		release = releasePremajor
	case entities.BumpMinor:
		release = releasePreminor
	}

	original, err := parseVersion(current)
	if err != nil {
		return "", err
	}
	incremented, _ := parseVersion(current)
	if incErr := incremented.inc(release, preName); incErr != nil {
		return "", incErr
	}

	if len(original.pre) == 0 || incremented.formal() == plain {
		return incremented.String(), nil
	}

	oldPrefix := original.pre[0]
	newPrefix, newNum := incremented.pre[0], incremented.pre[1]
	if newPrefix != oldPrefix {
		return plain + "-" + newPrefix + "." + newNum, nil
	}

	counter := uint64(0)
	if len(original.pre) > 1 && isNumeric(original.pre[1]) {
		n, _ := strconv.ParseUint(original.pre[1], 10, 64)
		counter = n + 1
	}
	return plain + "-" + oldPrefix + "." + strconv.FormatUint(counter, 10), nil
}
