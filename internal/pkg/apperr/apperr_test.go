package apperr

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestKindOf(t *testing.T) {
	Convey("错误类别提取", t, func() {
		Convey("直接构造的错误", func() {
			err := NotFound("conversation x not found")
			So(KindOf(err), ShouldEqual, KindNotFound)
			So(IsKind(err, KindNotFound), ShouldBeTrue)
			So(IsKind(err, KindUpstream), ShouldBeFalse)
		})

		Convey("经过包装仍能识别", func() {
			err := fmt.Errorf("complete request: %w", Upstream("inference call failed", errors.New("timeout")))
			So(KindOf(err), ShouldEqual, KindUpstream)
		})

		Convey("普通错误返回空类别", func() {
			So(KindOf(errors.New("plain")), ShouldEqual, Kind(""))
		})
	})
}

func TestAppError_Error(t *testing.T) {
	Convey("错误消息包含类别和原因", t, func() {
		cause := errors.New("connection refused")
		err := StoreUnavailable("redis ping failed", cause)

		So(err.Error(), ShouldEqual, "store_unavailable: redis ping failed: connection refused")
		So(errors.Unwrap(err), ShouldEqual, cause)
	})
}
