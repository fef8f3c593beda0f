package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"wallet_dashboard_back/internal/wallet"
	"wallet_dashboard_back/models"
	"wallet_dashboard_back/pkg/repository"
)

const maxContactName = 64

type ContactService struct {
	repo  repository.Contacts
	audit Auditor
}

func NewContactService(repo repository.Contacts, audit Auditor) *ContactService {
	return &ContactService{repo: repo, audit: audit}
}

func (s *ContactService) List(ctx context.Context, owner string) ([]models.Contact, error) {
	ownerAddr, err := wallet.NormalizeAddress(owner)
	if err != nil {
		return nil, invalid(err.Error())
	}
	contacts, err := s.repo.List(ctx, ownerAddr)
	return contacts, storageError("list contacts", err, "")
}

func (s *ContactService) Add(ctx context.Context, owner, name, address string) (models.Contact, error) {
	ownerAddr, err := wallet.NormalizeAddress(owner)
	if err != nil {
		return models.Contact{}, invalid(err.Error())
	}
	contactAddr, err := wallet.NormalizeAddress(address)
	if err != nil {
		return models.Contact{}, invalid("contact address: " + err.Error())
	}
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxContactName {
		return models.Contact{}, invalid("contact name must be 1-64 characters")
	}

	c, err := s.repo.Create(ctx, models.Contact{UserAddress: ownerAddr, ContactName: name, ContactAddress: contactAddr})
	if err != nil {
		if err = storageError("add contact", err, ""); KindOf(err) == KindConflict {
			return models.Contact{}, newError(KindConflict, "contact already exists")
		}
		return models.Contact{}, err
	}

	s.audit.Append(ctx, AuditRecord{
		Action:     ActionAddContact,
		EntityType: "address_book",
		EntityID:   &c.ID,
		NewValues:  map[string]interface{}{"owner": ownerAddr, "contact_address": contactAddr, "name": name},
	})
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, owner string, id int64) error {
	ownerAddr, err := wallet.NormalizeAddress(owner)
	if err != nil {
		return invalid(err.Error())
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return storageError("delete contact", err, "contact not found")
	}
	if c.UserAddress != ownerAddr {
		return forbidden("contact belongs to another user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageError("delete contact", err, "contact not found")
	}

	s.audit.Append(ctx, AuditRecord{
		Action:     ActionDeleteContact,
		EntityType: "address_book",
		EntityID:   &id,
		OldValues:  map[string]interface{}{"owner": ownerAddr, "contact_address": c.ContactAddress, "name": c.ContactName},
	})
	return nil
}
