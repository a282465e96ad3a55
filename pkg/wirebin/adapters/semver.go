package adapters

import (
	"github.com/coreos/go-semver/semver"

	"github.com/wavelayer/wirebin/pkg/wirebin"
)

// SemverCodec encodes a semantic version as major, minor and patch
// (uint64 each) followed by the pre-release and build-metadata strings.
type SemverCodec struct{}

func (SemverCodec) Write(w *wirebin.Writer, v semver.Version) {
	if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
		w.Fail(wirebin.Errorf("negative version component in %s", v.String()))
		return
	}
	w.WriteUint64(uint64(v.Major))
	w.WriteUint64(uint64(v.Minor))
	w.WriteUint64(uint64(v.Patch))
	w.WriteString(string(v.PreRelease))
	w.WriteString(v.Metadata)
}

func (SemverCodec) Read(r *wirebin.Reader) semver.Version {
	major := r.ReadUint64()
	minor := r.ReadUint64()
	patch := r.ReadUint64()
	pre := r.ReadString()
	meta := r.ReadString()
	if r.Err() != nil {
		return semver.Version{}
	}
	const maxInt64 = 1<<63 - 1
	if major > maxInt64 || minor > maxInt64 || patch > maxInt64 {
		r.Fail(wirebin.Errorf("version component overflows int64"))
		return semver.Version{}
	}
	return semver.Version{
		Major:      int64(major),
		Minor:      int64(minor),
		Patch:      int64(patch),
		PreRelease: semver.PreRelease(pre),
		Metadata:   meta,
	}
}

func (SemverCodec) MinSize() uint64 { return 40 }
