package interfaces

import "bookinghub/internal/domain/entities"

//go:generate mockgen -source=identity_verifier_interface.go -destination=mocks/mock_identity_verifier_interface.go -package=mock_interfaces

// IIdentityVerifier resolves a bearer credential to the subject and role it
// was issued for. Failures wrap ErrInvalidCredential.
type IIdentityVerifier interface {
	Verify(credential string) (entities.Identity, error)
}
