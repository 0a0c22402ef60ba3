package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	swagger "github.com/okian/talentfit/internal/adapters/http/swagger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegister(t *testing.T) {
	Convey("Given the documentation routes", t, func() {
		mux := http.NewServeMux()
		swagger.Register(context.Background(), mux)

		Convey("When requesting the docs page", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api-docs", nil))

			Convey("Then it should serve HTML pointing at the spec", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(rec.Body.String(), ShouldContainSubstring, "/openapi.yaml")
			})
		})

		Convey("When requesting the spec itself", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

			Convey("Then it should serve the embedded OpenAPI document", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "application/yaml")
				body := rec.Body.String()
				So(body, ShouldContainSubstring, "openapi:")
				for _, path := range []string{"/score", "/score/batch", "/applications", "/ranking/{job_id}", "/rank/{job_id}/{candidate_id}"} {
					So(body, ShouldContainSubstring, path)
				}
			})
		})

		Convey("When registering with a nil mux", func() {
			So(func() { swagger.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
