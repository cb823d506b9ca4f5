package handler_test

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"intake-backend/errs"
	"intake-backend/events"
	"intake-backend/jwt"
	"intake-backend/store"
)

var _ = Describe("Auth", func() {
	var ts *testServer

	BeforeEach(func() {
		ts = newTestServer(store.NewMemory())
	})

	Describe("Signup", func() {
		Specify("happy path", func() {
			res := ts.post("/signup", signupBody("a@x.com", "pw"))
			Expect(res).To(Equal(envelope{"status": "ok"}))
			Expect(ts.events.Kinds()).To(Equal([]events.Kind{events.UserCreated}))
		})
		Specify("sad path - already has account", func() {
			Expect(ts.post("/signup", signupBody("a@x.com", "pw"))["status"]).To(Equal("ok"))

			res := ts.post("/signup", signupBody("a@x.com", "other"))
			Expect(res).To(MatchEnvelopeError(errs.ErrUserExists))
			Expect(res).NotTo(HaveKey("status"))
			Expect(ts.events.Kinds()).To(HaveLen(1))
		})
		Specify("concurrent signups with one email - exactly one succeeds", func() {
			const n = 6
			results := make([]envelope, n)
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					results[i] = ts.post("/signup", signupBody("race@x.com", "pw"))
				}(i)
			}
			wg.Wait()

			okCount, dupCount := 0, 0
			for _, r := range results {
				if r["status"] == "ok" {
					okCount++
				}
				if r["error"] == errs.ErrUserExists.Error() {
					dupCount++
				}
			}
			Expect(okCount).To(Equal(1))
			Expect(dupCount).To(Equal(n - 1))
		})
		Specify("mismatched confirmPassword is stored, not rejected", func() {
			body := signupBody("a@x.com", "pw")
			body["confirmPassword"] = "different"
			Expect(ts.post("/signup", body)).To(Equal(envelope{"status": "ok"}))

			token := ts.post("/login", fiber.Map{"email": "a@x.com", "password": "pw"})["data"].(string)
			user := ts.post("/profile", fiber.Map{"token": token})["data"].(map[string]interface{})
			Expect(bcrypt.CompareHashAndPassword([]byte(user["confirmPassword"].(string)), []byte("different"))).To(Succeed())
		})
		Specify("sad path - malformed body", func() {
			res := ts.post("/signup", "not an object")
			Expect(res["status"]).To(Equal("error"))
			Expect(res["error"]).NotTo(BeEmpty())
		})
		Specify("sad path - store failure", func() {
			ts = newTestServer(brokenStore{})
			res := ts.post("/signup", signupBody("a@x.com", "pw"))
			Expect(res).To(Equal(envelope{"status": "error", "error": errBroken.Error()}))
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			Expect(ts.post("/signup", signupBody("a@x.com", "pw"))["status"]).To(Equal("ok"))
		})

		Specify("happy path", func() {
			res := ts.post("/login", fiber.Map{"email": "a@x.com", "password": "pw"})
			Expect(res["status"]).To(Equal("ok"))
			Expect(res["data"]).NotTo(BeEmpty())

			c, err := jwt.NewIssuer(key, 0).Verify(res["data"].(string))
			Expect(err).To(BeNil())
			Expect(c.Email).To(Equal("a@x.com"))
		})
		Specify("sad path - wrong password", func() {
			res := ts.post("/login", fiber.Map{"email": "a@x.com", "password": "nope"})
			Expect(res).To(MatchEnvelopeError(errs.ErrInvalidPassword))
			Expect(res).NotTo(HaveKey("data"))
		})
		Specify("sad path - unknown email", func() {
			res := ts.post("/login", fiber.Map{"email": "b@x.com", "password": "pw"})
			Expect(res).To(MatchEnvelopeError(errs.ErrUserNotFound))
		})
		Specify("sad path - store failure", func() {
			ts = newTestServer(brokenStore{})
			res := ts.post("/login", fiber.Map{"email": "a@x.com", "password": "pw"})
			Expect(res).To(Equal(envelope{"status": "error", "error": errBroken.Error()}))
		})
	})

	Describe("Profile", func() {
		var token string

		BeforeEach(func() {
			Expect(ts.post("/signup", signupBody("a@x.com", "pw"))["status"]).To(Equal("ok"))
			token = ts.post("/login", fiber.Map{"email": "a@x.com", "password": "pw"})["data"].(string)
		})

		Specify("happy path", func() {
			res := ts.post("/profile", fiber.Map{"token": token})
			Expect(res["status"]).To(Equal("ok"))

			user := res["data"].(map[string]interface{})
			Expect(user["email"]).To(Equal("a@x.com"))
			Expect(user["firstname"]).To(Equal("A"))
			Expect(user["number"]).To(Equal("123"))
			Expect(user["_id"]).NotTo(BeEmpty())
			// hashes are returned as stored
			Expect(user["password"]).NotTo(BeEmpty())
			Expect(user["password"]).NotTo(Equal("pw"))
			Expect(user).To(HaveKey("confirmPassword"))
		})
		Specify("sad path - malformed token", func() {
			res := ts.post("/profile", fiber.Map{"token": "garbage"})
			Expect(res).To(Equal(envelope{"status": "error", "error": errs.ErrInvalidToken.Error()}))
		})
		Specify("sad path - token signed with another key", func() {
			other, err := jwt.NewIssuer([]byte("other-key"), 0).Issue("a@x.com")
			Expect(err).To(BeNil())

			res := ts.post("/profile", fiber.Map{"token": other})
			Expect(res).To(MatchEnvelopeError(errs.ErrInvalidToken))
			Expect(res["status"]).To(Equal("error"))
		})
		Specify("valid token for a missing user", func() {
			ghost, err := jwt.NewIssuer(key, 0).Issue("ghost@x.com")
			Expect(err).To(BeNil())

			res := ts.post("/profile", fiber.Map{"token": ghost})
			Expect(res["status"]).To(Equal("ok"))
			Expect(res).To(HaveKeyWithValue("data", BeNil()))
		})
	})

	Specify("signup then login scenario", func() {
		res := ts.post("/signup", fiber.Map{
			"firstname":       "A",
			"lastname":        "B",
			"email":           "a@x.com",
			"number":          "123",
			"password":        "pw",
			"confirmPassword": "pw",
		})
		Expect(res).To(Equal(envelope{"status": "ok"}))

		res = ts.post("/login", fiber.Map{"email": "a@x.com", "password": "pw"})
		Expect(res["status"]).To(Equal("ok"))
		Expect(res["data"]).To(BeAssignableToTypeOf(""))
		Expect(res["data"]).NotTo(BeEmpty())
	})
})
